package app

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-3angles/internal/clock"
	"github.com/coreman2200/funtimes-3angles/internal/config"
	"github.com/coreman2200/funtimes-3angles/internal/driver/fake"
	"github.com/coreman2200/funtimes-3angles/internal/face"
	"github.com/coreman2200/funtimes-3angles/internal/layout"
	"github.com/coreman2200/funtimes-3angles/internal/render"
)

func newCore(t *testing.T, mode face.Mode, now time.Time, drv *fake.Driver, opts Options) (*Core, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(now)
	store := config.Open(config.NewMemSlots(), zerolog.Nop())
	f := face.New(store, clk, face.Options{Mode: mode, Logger: zerolog.Nop()})
	opts.Logger = zerolog.Nop()
	return NewCore(f, clk, drv, opts), clk
}

func at(h, m, s int) time.Time {
	return time.Date(2024, time.March, 9, h, m, s, 0, time.UTC)
}

func TestActivatePresentsFirstFrame(t *testing.T) {
	drv := &fake.Driver{}
	c, _ := newCore(t, face.ModeImmediate, at(12, 30, 15), drv, Options{})
	require.NoError(t, c.Activate(context.Background()))
	defer c.Deactivate()

	assert.Equal(t, 1, drv.Frames())
	frame := drv.LastFrame()
	require.NotNil(t, frame)
	hour := layout.Point(0)
	assert.Equal(t, color.RGBA{A: 0xFF}, frame.RGBAAt(hour.X, hour.Y), "hour centre shows the background")
	assert.Equal(t, render.Cyan.RGBA(), frame.RGBAAt(90, 84), "triangle")
}

func TestActivateWithoutClock(t *testing.T) {
	drv := &fake.Driver{}
	c, _ := newCore(t, face.ModeImmediate, time.Time{}, drv, Options{})
	err := c.Activate(context.Background())
	assert.ErrorIs(t, err, clock.ErrUnavailable)
	assert.ErrorIs(t, c.Err(), clock.ErrUnavailable)
	assert.Zero(t, drv.Frames())
	c.Deactivate()
}

func TestConfigUpdateRedrawsThroughLoop(t *testing.T) {
	drv := &fake.Driver{}
	c, _ := newCore(t, face.ModeImmediate, at(3, 5, 12), drv, Options{FPS: 100})
	require.NoError(t, c.Activate(context.Background()))
	defer c.Deactivate()

	require.True(t, c.Submit(face.ConfigUpdate{Key: config.KeyBackground, Value: 0xFFFFFF}))
	require.Eventually(t, func() bool { return drv.Frames() >= 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, render.White.RGBA(), drv.LastFrame().RGBAAt(0, 0))
}

func TestMissingClockStopsLoop(t *testing.T) {
	drv := &fake.Driver{}
	fatal := make(chan error, 4)
	c, _ := newCore(t, face.ModeAnimated, at(3, 5, 12), drv, Options{
		OnFatal: func(err error) { fatal <- err },
	})

	before := c.Done()
	require.NotNil(t, before)
	select {
	case <-before:
		t.Fatal("done before the loop started")
	default:
	}

	require.NoError(t, c.Activate(context.Background()))
	require.True(t, c.Submit(face.Tick{}))
	select {
	case <-before:
	case <-time.After(2 * time.Second):
		t.Fatal("loop still running")
	}
	assert.ErrorIs(t, c.Err(), clock.ErrUnavailable)
	assert.Equal(t, clock.ErrUnavailable.Error(), c.Status()["error"])
	c.Deactivate()
	require.Len(t, fatal, 1)
	assert.ErrorIs(t, <-fatal, clock.ErrUnavailable)
}

func TestDriverErrorsAreReported(t *testing.T) {
	var seen []error
	drv := &fake.Driver{Err: errors.New("bus gone")}
	c, _ := newCore(t, face.ModeImmediate, at(3, 5, 12), drv, Options{
		OnDriverError: func(err error) { seen = append(seen, err) },
	})
	require.NoError(t, c.Prime())
	require.Len(t, seen, 1)
	assert.NoError(t, c.Err())
}

func TestStepAnimated(t *testing.T) {
	drv := &fake.Driver{}
	traced := 0
	c, clk := newCore(t, face.ModeAnimated, at(9, 20, 40), drv, Options{
		Trace: func(calls []render.DrawCall) {
			traced++
			assert.Equal(t, render.OpFillRect, calls[0].Op)
		},
	})
	require.NoError(t, c.Prime())

	require.NoError(t, c.Step(face.Refresh{Time: clk.Advance(100 * time.Millisecond)}))
	require.NoError(t, c.Step(face.Refresh{Time: clk.Advance(time.Second)}))
	assert.Equal(t, 3, drv.Frames())

	require.NoError(t, c.Step(face.Refresh{Time: clk.Advance(time.Second)}))
	assert.Equal(t, 3, drv.Frames(), "settled face draws nothing")

	require.NoError(t, c.Step(face.Tick{Time: at(9, 20, 43)}))
	assert.Equal(t, 3, drv.Frames(), "off-boundary tick")
	require.NoError(t, c.Step(face.Tick{Time: at(9, 20, 45)}))
	assert.Equal(t, 4, drv.Frames())
	assert.Equal(t, uint64(4), c.Frames())
	assert.Equal(t, 4, traced)
}

func TestUntilNextSecond(t *testing.T) {
	base := at(1, 2, 3)
	assert.Equal(t, time.Second, untilNextSecond(base))
	assert.Equal(t, 750*time.Millisecond, untilNextSecond(base.Add(250*time.Millisecond)))
}
