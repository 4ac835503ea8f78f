package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m, s int) time.Time {
	return time.Date(2024, time.March, 9, h, m, s, 0, time.UTC)
}

func TestSampleQuantizes(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want TimeSample
	}{
		{"midnight", at(0, 0, 0), TimeSample{0, 0, 0}},
		{"noon wraps", at(12, 0, 0), TimeSample{0, 0, 0}},
		{"afternoon", at(15, 5, 15), TimeSample{3, 1, 3}},
		{"bucket edge low", at(9, 4, 4), TimeSample{9, 0, 0}},
		{"bucket edge high", at(9, 5, 5), TimeSample{9, 1, 1}},
		{"last second", at(23, 59, 59), TimeSample{11, 11, 11}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Sample(c.now)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestSampleAlwaysInRange(t *testing.T) {
	start := at(0, 0, 0)
	for i := 0; i < 24*60*60; i += 7 {
		now := start.Add(time.Duration(i) * time.Second)
		s, err := Sample(now)
		require.NoError(t, err)
		h, m, sec := now.Clock()
		assert.Equal(t, h%12, s.Hour)
		assert.Equal(t, m/5, s.Minute)
		assert.Equal(t, sec/5, s.Second)
		for _, v := range []int{s.Hour, s.Minute, s.Second} {
			if v < 0 || v > 11 {
				t.Fatalf("index %d out of range at %v", v, now)
			}
		}
	}
}

func TestSampleZeroTime(t *testing.T) {
	_, err := Sample(time.Time{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestIsBoundary(t *testing.T) {
	assert.True(t, IsBoundary(at(3, 0, 0)))
	assert.True(t, IsBoundary(at(3, 5, 15)))
	assert.False(t, IsBoundary(at(3, 5, 16)))
	assert.False(t, IsBoundary(at(3, 5, 59)))
}

func TestFakeAdvance(t *testing.T) {
	f := NewFake(at(1, 2, 3))
	assert.Equal(t, at(1, 2, 8), f.Advance(5*time.Second))
	f.Set(at(4, 0, 0))
	assert.Equal(t, at(4, 0, 0), f.Now())
}
