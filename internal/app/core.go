// Package app hosts the face: it owns the event loop that plays the part of
// the watch OS and presents every frame to the output drivers.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-3angles/internal/clock"
	"github.com/coreman2200/funtimes-3angles/internal/driver"
	"github.com/coreman2200/funtimes-3angles/internal/face"
	"github.com/coreman2200/funtimes-3angles/internal/layout"
	"github.com/coreman2200/funtimes-3angles/internal/raster"
	"github.com/coreman2200/funtimes-3angles/internal/render"
)

type Options struct {
	// FPS caps refresh frames while the face needs them.
	FPS int
	// Queue is the event buffer size.
	Queue  int
	Logger zerolog.Logger
	// OnDriverError sees every failed frame write. The next frame retries.
	OnDriverError func(error)
	// Trace, when set, sees each frame's draw calls before they are presented.
	Trace func([]render.DrawCall)
	// OnFatal sees the error that stopped the face, once per failure.
	OnFatal func(error)
}

// Core serializes clock ticks, refreshes and config updates onto a single
// goroutine; the face is never touched from anywhere else while it runs.
type Core struct {
	face   *face.Face
	clk    clock.Clock
	drv    driver.Driver
	canvas *raster.Canvas
	events chan face.Event
	opts   Options
	log    zerolog.Logger

	cancel context.CancelFunc

	mu     sync.Mutex
	done   chan struct{}
	ran    bool
	frames uint64
	err    error
}

func NewCore(f *face.Face, clk clock.Clock, drv driver.Driver, opts Options) *Core {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Queue <= 0 {
		opts.Queue = 16
	}
	return &Core{
		face:   f,
		clk:    clk,
		drv:    drv,
		canvas: raster.New(layout.Bounds()),
		events: make(chan face.Event, opts.Queue),
		opts:   opts,
		log:    opts.Logger,
		done:   make(chan struct{}),
	}
}

// Prime activates the face and presents its first frame without starting
// the loop. Events are then fed with Step.
func (c *Core) Prime() error {
	calls, err := c.face.Activate()
	if err != nil {
		c.fail(err)
		return err
	}
	c.present(calls)
	return nil
}

// Activate draws the first frame and starts the loop. A clock failure here
// is returned and nothing is started.
func (c *Core) Activate(ctx context.Context) error {
	if err := c.Prime(); err != nil {
		return err
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Lock()
	if c.ran {
		c.done = make(chan struct{})
	}
	c.ran = true
	done := c.done
	c.mu.Unlock()
	go c.run(ctx, done)
	c.log.Info().Stringer("mode", c.face.Mode()).Int("fps", c.opts.FPS).Msg("face active")
	return nil
}

// Deactivate stops the loop and waits for it.
func (c *Core) Deactivate() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.Done()
	c.cancel = nil
	c.face.Deactivate()
	c.log.Info().Uint64("frames", c.Frames()).Msg("face inactive")
}

// Done is closed when the loop exits, either on Deactivate or on a fatal
// error; see Err. It is valid before Activate. A later Activate replaces it.
func (c *Core) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Err is the fatal error that stopped the loop, if any.
func (c *Core) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Core) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Submit queues ev for the loop. It never blocks; a full queue drops ev.
func (c *Core) Submit(ev face.Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
		c.log.Warn().Type("event", ev).Msg("event queue full, dropped")
		return false
	}
}

// Step handles ev synchronously and presents the result. Only for use while
// the loop is not running, as the simulator does.
func (c *Core) Step(ev face.Event) error {
	if c.cancel != nil {
		return errors.New("app: Step while loop running")
	}
	calls, err := c.face.Handle(ev)
	if err != nil {
		c.fail(err)
		return err
	}
	c.present(calls)
	return nil
}

// Image is the last presented frame.
func (c *Core) Image() *raster.Canvas { return c.canvas }

// Status reports loop state for health checks.
func (c *Core) Status() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := map[string]any{
		"mode":   c.face.Mode().String(),
		"frames": c.frames,
	}
	if c.err != nil {
		st["error"] = c.err.Error()
	}
	return st
}

func (c *Core) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	second := time.NewTimer(untilNextSecond(c.clk.Now()))
	defer second.Stop()

	var frame *time.Ticker
	var frameC <-chan time.Time
	syncFrames := func() {
		switch want := c.face.NeedsFrame(); {
		case want && frame == nil:
			frame = time.NewTicker(time.Second / time.Duration(c.opts.FPS))
			frameC = frame.C
		case !want && frame != nil:
			frame.Stop()
			frame, frameC = nil, nil
		}
	}
	defer func() {
		if frame != nil {
			frame.Stop()
		}
	}()
	syncFrames()

	for {
		var ev face.Event
		select {
		case <-ctx.Done():
			return
		case <-second.C:
			now := c.clk.Now()
			second.Reset(untilNextSecond(now))
			ev = face.Tick{Time: now}
		case <-frameC:
			ev = face.Refresh{Time: c.clk.Now()}
		case ev = <-c.events:
		}

		calls, err := c.face.Handle(ev)
		if err != nil {
			c.fail(err)
			return
		}
		c.present(calls)
		syncFrames()
	}
}

func (c *Core) present(calls []render.DrawCall) {
	if len(calls) == 0 {
		return
	}
	if c.opts.Trace != nil {
		c.opts.Trace(calls)
	}
	render.Replay(calls, c.canvas)
	if err := driver.Present(c.drv, calls, c.canvas.Image()); err != nil {
		c.log.Warn().Err(err).Msg("driver write failed")
		if c.opts.OnDriverError != nil {
			c.opts.OnDriverError(err)
		}
	}
	c.mu.Lock()
	c.frames++
	c.mu.Unlock()
}

func (c *Core) fail(err error) {
	c.log.Error().Err(err).Msg("face stopped")
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	if c.opts.OnFatal != nil {
		c.opts.OnFatal(err)
	}
}

// untilNextSecond aligns ticks to whole wall-clock seconds.
func untilNextSecond(now time.Time) time.Duration {
	d := time.Second - time.Duration(now.Nanosecond())
	if d <= 0 {
		d = time.Second
	}
	return d
}
