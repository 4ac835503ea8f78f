package clock

import (
	"errors"
	"time"
)

// ErrUnavailable means no wall-clock reading was supplied. Nothing useful can
// be drawn without one, so callers treat it as fatal.
var ErrUnavailable = errors.New("clock: wall-clock reading unavailable")

// BucketSeconds is the width of a minute/second bucket.
const BucketSeconds = 5

// TimeSample is a wall-clock reading quantized to anchor indices, each in
// 0..11. Minutes and seconds are bucketed five to an anchor.
type TimeSample struct {
	Hour   int
	Minute int
	Second int
}

// Sample quantizes now into anchor indices.
func Sample(now time.Time) (TimeSample, error) {
	if now.IsZero() {
		return TimeSample{}, ErrUnavailable
	}
	h, m, s := now.Clock()
	return TimeSample{
		Hour:   h % 12,
		Minute: m / BucketSeconds,
		Second: s / BucketSeconds,
	}, nil
}

// IsBoundary reports whether now starts a new five-second bucket, the only
// ticks on which the sampled indices can change.
func IsBoundary(now time.Time) bool {
	return now.Second()%BucketSeconds == 0
}
