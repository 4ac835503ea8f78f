package driver_test

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-3angles/internal/driver"
	"github.com/coreman2200/funtimes-3angles/internal/driver/fake"
	"github.com/coreman2200/funtimes-3angles/internal/render"
)

func TestFanoutWritesAll(t *testing.T) {
	a, b := &fake.Driver{}, &fake.Driver{Err: errors.New("unplugged")}
	c := &fake.Driver{}
	f := driver.Fanout{a, b, c}

	err := f.Write(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unplugged")
	assert.Equal(t, 1, a.Count)
	assert.Equal(t, 0, b.Count)
	assert.Equal(t, 1, c.Count)

	assert.NoError(t, f.Close())
	assert.True(t, a.Closed)
	assert.True(t, c.Closed)
}

type callSink struct {
	fake.Driver
	calls int
}

func (c *callSink) Paint(calls []render.DrawCall) error {
	c.calls += len(calls)
	return nil
}

func TestPresentRoutesCallsToPainters(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	calls := []render.DrawCall{{Op: render.OpFillRect, Rect: img.Bounds()}}
	plain, painter := &fake.Driver{}, &callSink{}

	require.NoError(t, driver.Present(driver.Fanout{plain, painter}, calls, img))
	assert.Equal(t, 1, plain.Frames())
	assert.Equal(t, 1, painter.calls)
	assert.Equal(t, 0, painter.Frames(), "painter never sees the colour frame")
}

func TestFit(t *testing.T) {
	face := image.Rect(0, 0, 144, 168)
	var tests = []struct {
		dst    image.Rectangle
		expect image.Rectangle
	}{
		{image.Rect(0, 0, 128, 64), image.Rect(37, 0, 91, 64)},
		{image.Rect(0, 0, 36, 42), image.Rect(0, 0, 36, 42)},
		{image.Rect(0, 0, 144, 336), image.Rect(0, 84, 144, 252)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, driver.Fit(face, tt.dst), tt.dst.String())
	}
}
