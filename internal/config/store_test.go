package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-3angles/internal/render"
)

func TestOpenDefaults(t *testing.T) {
	s := Open(NewMemSlots(), zerolog.Nop())
	assert.Equal(t, Config{Accent: render.Cyan, Background: render.Black}, s.Current())
	assert.False(t, s.Current().Configured)
}

func TestOpenIgnoresValuesWithoutFlag(t *testing.T) {
	slots := NewMemSlots()
	slots.Ints[KeyAccent] = 0xFF0000
	s := Open(slots, zerolog.Nop())
	assert.Equal(t, Defaults(), s.Current())
}

func TestApplyUpdateRoundTrip(t *testing.T) {
	slots := NewMemSlots()
	s := Open(slots, zerolog.Nop())

	change, err := s.ApplyUpdate(KeyAccent, 0x00FFFF)
	require.NoError(t, err)
	assert.Equal(t, ChangeAccent, change)
	assert.Equal(t, render.Cyan, s.Current().Accent)
	assert.True(t, s.Current().Configured)

	change, err = s.ApplyUpdate(KeyBackground, 0xFFFFFF)
	require.NoError(t, err)
	assert.Equal(t, ChangeBackground, change)

	reopened := Open(slots, zerolog.Nop())
	assert.Equal(t, Config{Accent: render.Cyan, Background: render.White, Configured: true}, reopened.Current())
}

func TestApplyUpdateMalformed(t *testing.T) {
	slots := NewMemSlots()
	s := Open(slots, zerolog.Nop())
	before := s.Current()

	for _, tc := range []struct {
		name string
		key  Key
		raw  int64
	}{
		{"negative", KeyAccent, -1},
		{"too wide", KeyBackground, 0x1000000},
		{"unknown key", KeyConfigured, 0x00FF00},
		{"unknown key number", Key(7), 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			change, err := s.ApplyUpdate(tc.key, tc.raw)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Equal(t, ChangeNone, change)
			assert.Equal(t, before, s.Current())
		})
	}
	assert.Empty(t, slots.Ints)
	assert.Empty(t, slots.Bools)
}

func TestMalformedDoesNotClearConfigured(t *testing.T) {
	s := Open(NewMemSlots(), zerolog.Nop())
	_, err := s.ApplyUpdate(KeyBackground, 0x0000FF)
	require.NoError(t, err)

	_, err = s.ApplyUpdate(KeyBackground, -5)
	require.Error(t, err)
	assert.True(t, s.Current().Configured)
	assert.Equal(t, render.Color(0x0000FF), s.Current().Background)
}

func TestApplyUpdatePersistFailure(t *testing.T) {
	slots := NewMemSlots()
	slots.Err = errors.New("flash full")
	s := Open(slots, zerolog.Nop())

	change, err := s.ApplyUpdate(KeyAccent, 0x00FF00)
	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, ChangeAccent, change)
	assert.Equal(t, render.Color(0x00FF00), s.Current().Accent)
}

func TestFileSlotsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")

	slots, err := OpenFileSlots(path)
	require.NoError(t, err)
	s := Open(slots, zerolog.Nop())
	assert.False(t, s.Current().Configured)

	_, err = s.ApplyUpdate(KeyAccent, 0x00FFFF)
	require.NoError(t, err)
	_, err = s.ApplyUpdate(KeyBackground, 0x550000)
	require.NoError(t, err)

	again, err := OpenFileSlots(path)
	require.NoError(t, err)
	restarted := Open(again, zerolog.Nop())
	assert.Equal(t, Config{Accent: render.Cyan, Background: 0x550000, Configured: true}, restarted.Current())

	assert.NoFileExists(t, path+".tmp")
}

func TestOpenFileSlotsRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, writeFile(path, "ints: [not, a, map"))
	_, err := OpenFileSlots(path)
	assert.Error(t, err)
}
