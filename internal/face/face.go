// Package face is the event-driven front of the clock face. It folds tick,
// config and refresh events into state and answers each with the draw calls
// to present, in either the immediate or the animated mode.
package face

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-3angles/internal/animation"
	"github.com/coreman2200/funtimes-3angles/internal/clock"
	"github.com/coreman2200/funtimes-3angles/internal/config"
	"github.com/coreman2200/funtimes-3angles/internal/layout"
	"github.com/coreman2200/funtimes-3angles/internal/render"
)

type Mode int

const (
	ModeImmediate Mode = iota
	ModeAnimated
)

func (m Mode) String() string {
	if m == ModeAnimated {
		return "animated"
	}
	return "immediate"
}

// ParseMode accepts "immediate" or "animated".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "immediate":
		return ModeImmediate, nil
	case "animated", "":
		return ModeAnimated, nil
	}
	return 0, fmt.Errorf("face: unknown mode %q", s)
}

// Event is something the host delivers to the face.
type Event interface{ event() }

// Tick is the once-a-second clock callback.
type Tick struct{ Time time.Time }

// ConfigUpdate is a raw value from the config channel.
type ConfigUpdate struct {
	Key   config.Key
	Value int64
}

// Refresh is a display refresh; the host sends one per frame while
// NeedsFrame is true.
type Refresh struct{ Time time.Time }

func (Tick) event()         {}
func (ConfigUpdate) event() {}
func (Refresh) event()      {}

type Options struct {
	Mode       Mode
	Transition time.Duration
	Logger     zerolog.Logger
	// OnConfigError sees every rejected or unsaved config update.
	OnConfigError func(ConfigUpdate, error)
}

// Face is a single-threaded reducer: the host must not call it concurrently.
type Face struct {
	mode   Mode
	store  *config.Store
	clk    clock.Clock
	anim   *animation.Engine
	log    zerolog.Logger
	onErr  func(ConfigUpdate, error)
	dirty  bool
	active bool
}

func New(store *config.Store, clk clock.Clock, opts Options) *Face {
	f := &Face{
		mode:  opts.Mode,
		store: store,
		clk:   clk,
		log:   opts.Logger,
		onErr: opts.OnConfigError,
	}
	if opts.Mode == ModeAnimated {
		f.anim = animation.NewEngine(animation.Options{
			Duration: opts.Transition,
			OnSettled: func(r animation.Role) {
				f.log.Trace().Stringer("hand", r).Msg("hand settled")
			},
		})
	}
	return f
}

func (f *Face) Mode() Mode { return f.mode }

// Engine exposes the animation engine; nil in immediate mode.
func (f *Face) Engine() *animation.Engine { return f.anim }

// Activate draws the first frame. In animated mode every hand is sent to its
// position, whatever the tick.
func (f *Face) Activate() ([]render.DrawCall, error) {
	now := f.clk.Now()
	f.active = true
	if f.mode == ModeAnimated {
		if _, err := f.anim.Trigger(now, true); err != nil {
			return nil, err
		}
		return f.paint(now), nil
	}
	return f.render(now)
}

// Deactivate stops the face reacting to events.
func (f *Face) Deactivate() {
	f.active = false
	f.dirty = false
}

// NeedsFrame reports whether a Refresh would draw anything.
func (f *Face) NeedsFrame() bool {
	if !f.active {
		return false
	}
	return f.dirty || (f.anim != nil && f.anim.Animating())
}

// Handle applies ev and returns the calls to present, nil for nothing. An
// error means no clock reading was available and is fatal to the host.
func (f *Face) Handle(ev Event) ([]render.DrawCall, error) {
	if !f.active {
		return nil, nil
	}
	switch ev := ev.(type) {
	case Tick:
		return f.tick(ev.Time)
	case ConfigUpdate:
		f.configure(ev)
		return nil, nil
	case Refresh:
		return f.refresh(ev.Time)
	}
	return nil, nil
}

func (f *Face) tick(now time.Time) ([]render.DrawCall, error) {
	if now.IsZero() {
		return nil, clock.ErrUnavailable
	}
	if !clock.IsBoundary(now) {
		return nil, nil
	}
	if f.mode == ModeAnimated {
		moved, err := f.anim.Trigger(now, false)
		if err != nil {
			return nil, err
		}
		f.log.Debug().Time("tick", now).Interface("moved", moved).Msg("hands triggered")
		return f.paint(now), nil
	}
	return f.render(now)
}

func (f *Face) configure(u ConfigUpdate) {
	change, err := f.store.ApplyUpdate(u.Key, u.Value)
	if err != nil && f.onErr != nil {
		f.onErr(u, err)
	}
	switch {
	case errors.Is(err, config.ErrMalformed):
		f.log.Warn().Err(err).Stringer("key", u.Key).Int64("value", u.Value).Msg("config update dropped")
		return
	case err != nil:
		f.log.Error().Err(err).Stringer("key", u.Key).Msg("config update not persisted")
	}
	f.log.Info().Stringer("change", change).Msg("config changed; redraw requested")
	f.dirty = true
}

func (f *Face) refresh(now time.Time) ([]render.DrawCall, error) {
	if !f.NeedsFrame() {
		return nil, nil
	}
	if f.mode == ModeAnimated {
		return f.paint(now), nil
	}
	return f.render(now)
}

func (f *Face) render(now time.Time) ([]render.DrawCall, error) {
	s, err := clock.Sample(now)
	if err != nil {
		return nil, err
	}
	rec := render.NewRecorder(layout.Bounds())
	Immediate{}.Render(s, f.store.Current(), rec)
	f.dirty = false
	return rec.Calls, nil
}

func (f *Face) paint(now time.Time) []render.DrawCall {
	rec := render.NewRecorder(layout.Bounds())
	f.anim.Paint(now, f.store.Current(), rec)
	f.dirty = false
	return rec.Calls
}
