package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-3angles/internal/render"
)

var (
	// ErrMalformed rejects an update payload; the store is left unchanged.
	ErrMalformed = errors.New("config: malformed update")
	// ErrPersist means the update was applied in memory but not saved.
	ErrPersist = errors.New("config: persist failed")
)

// Key names a persisted slot. The numbering matches the companion app's
// message keys, so values can be stored under the key they arrived with.
type Key uint32

const (
	KeyAccent     Key = 0
	KeyBackground Key = 1
	KeyConfigured Key = 2
)

func (k Key) String() string {
	switch k {
	case KeyAccent:
		return "accent"
	case KeyBackground:
		return "background"
	case KeyConfigured:
		return "configured"
	default:
		return fmt.Sprintf("key%d", uint32(k))
	}
}

// Change tells the caller what an update touched. Either one currently
// invalidates the whole scene.
type Change int

const (
	ChangeNone Change = iota
	ChangeAccent
	ChangeBackground
)

func (c Change) String() string {
	switch c {
	case ChangeAccent:
		return "accent"
	case ChangeBackground:
		return "background"
	default:
		return "none"
	}
}

// Config is the user-facing face configuration.
type Config struct {
	Accent     render.Color
	Background render.Color
	Configured bool
}

// Defaults apply until the first update ever arrives.
func Defaults() Config {
	return Config{Accent: render.Cyan, Background: render.Black}
}

// Store holds the current Config and writes every accepted update through to
// its Slots. It is not safe for concurrent use; the host serializes callers.
type Store struct {
	slots Slots
	cur   Config
	log   zerolog.Logger
}

// Open builds a Store from whatever slots hold. Until the configured flag has
// been written, defaults apply regardless of stored values. A slot that is
// missing or unreadable after configuration falls back to its default.
func Open(slots Slots, log zerolog.Logger) *Store {
	s := &Store{slots: slots, cur: Defaults(), log: log}
	if set, ok := slots.ReadBool(KeyConfigured); !ok || !set {
		return s
	}
	s.cur.Configured = true
	for _, k := range []Key{KeyAccent, KeyBackground} {
		raw, ok := slots.ReadInt(k)
		if !ok {
			continue
		}
		c, err := render.FromHex(raw)
		if err != nil {
			log.Warn().Err(err).Stringer("key", k).Msg("ignoring stored color")
			continue
		}
		s.set(k, c)
	}
	return s
}

// Current returns the latest configuration.
func (s *Store) Current() Config { return s.cur }

// ApplyUpdate validates raw as a 24-bit colour for key, applies it and
// persists both the value and the configured flag.
func (s *Store) ApplyUpdate(key Key, raw int64) (Change, error) {
	var change Change
	switch key {
	case KeyAccent:
		change = ChangeAccent
	case KeyBackground:
		change = ChangeBackground
	default:
		return ChangeNone, fmt.Errorf("%w: unknown key %d", ErrMalformed, uint32(key))
	}
	c, err := render.FromHex(raw)
	if err != nil {
		return ChangeNone, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	s.set(key, c)
	s.cur.Configured = true

	if err := s.slots.WriteBool(KeyConfigured, true); err != nil {
		return change, fmt.Errorf("%w: %s: %v", ErrPersist, KeyConfigured, err)
	}
	if err := s.slots.WriteInt(key, raw); err != nil {
		return change, fmt.Errorf("%w: %s: %v", ErrPersist, key, err)
	}
	s.log.Debug().Stringer("key", key).Stringer("color", c).Msg("config updated")
	return change, nil
}

func (s *Store) set(key Key, c render.Color) {
	switch key {
	case KeyAccent:
		s.cur.Accent = c
	case KeyBackground:
		s.cur.Background = c
	}
}
