// Package animation keeps three retained hand layers and decides, tick by
// tick, which of them move. The triangle overlay is always derived from the
// layers' live frames, so it follows a hand through its transition instead of
// jumping to where the clock says the hand should end up.
package animation

import (
	"image"
	"time"

	"github.com/coreman2200/funtimes-3angles/internal/clock"
	"github.com/coreman2200/funtimes-3angles/internal/config"
	"github.com/coreman2200/funtimes-3angles/internal/layout"
	"github.com/coreman2200/funtimes-3angles/internal/render"
)

// DefaultDuration matches the host's default animation length.
const DefaultDuration = 250 * time.Millisecond

type Options struct {
	// Duration of every hand move. Zero means DefaultDuration.
	Duration time.Duration
	// Curve eases each move. Nil means EaseInOut.
	Curve Curve
	// Start is where the hands rest before the first move. Zero means the
	// face centre.
	Start image.Point
	// OnSettled fires when a move runs to completion. It never fires for a
	// move that was replaced by a newer one.
	OnSettled func(Role)
}

// Engine owns the hand layers. Not safe for concurrent use.
type Engine struct {
	opts   Options
	layers [len(Roles)]*Layer
}

func NewEngine(opts Options) *Engine {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Curve == nil {
		opts.Curve = EaseInOut
	}
	if opts.Start == (image.Point{}) {
		opts.Start = layout.Center()
	}
	e := &Engine{opts: opts}
	for _, r := range Roles {
		e.layers[r] = newLayer(r, opts.Start)
	}
	return e
}

// Layer returns the layer for role.
func (e *Engine) Layer(r Role) *Layer { return e.layers[r] }

// Trigger schedules the moves for the tick at now and returns the roles it
// moved. Outside a five-second boundary nothing happens unless force is set.
//
// The second hand always moves. The minute hand moves only when the minute
// rolls over (second == 0) or on force, and the hour hand only when the
// minute hand moved and the hour rolls over (minute == 0) or on force.
func (e *Engine) Trigger(now time.Time, force bool) ([]Role, error) {
	s, err := clock.Sample(now)
	if err != nil {
		return nil, err
	}
	if !force && !clock.IsBoundary(now) {
		return nil, nil
	}

	moved := []Role{Second}
	e.move(Second, s.Second, now)

	if force || now.Second() == 0 {
		moved = append(moved, Minute)
		e.move(Minute, s.Minute, now)

		if force || now.Minute() == 0 {
			moved = append(moved, Hour)
			e.move(Hour, s.Hour, now)
		}
	}
	return moved, nil
}

func (e *Engine) move(r Role, anchor int, now time.Time) {
	e.layers[r].animateTo(anchor, now, e.opts.Duration, e.opts.Curve)
}

// Advance brings every in-flight layer to its position at now.
func (e *Engine) Advance(now time.Time) {
	for _, l := range e.layers {
		if l.advance(now, e.opts.Curve) && e.opts.OnSettled != nil {
			e.opts.OnSettled(l.role)
		}
	}
}

// Animating reports whether any layer is mid-move.
func (e *Engine) Animating() bool {
	for _, l := range e.layers {
		if l.state == Animating {
			return true
		}
	}
	return false
}

// Triangle returns the live layer centres in second, minute, hour order.
func (e *Engine) Triangle() [3]image.Point {
	return [3]image.Point{
		e.layers[Second].Center(),
		e.layers[Minute].Center(),
		e.layers[Hour].Center(),
	}
}

// Scene builds the frame to paint from the current layer positions.
func (e *Engine) Scene(cfg config.Config) render.Scene {
	return render.Scene{
		Background: cfg.Background,
		Accent:     cfg.Accent,
		Hour:       e.layers[Hour].Center(),
		Minute:     e.layers[Minute].Center(),
		Second:     e.layers[Second].Center(),
	}
}

// Paint advances to now and draws the whole face. Colours come from cfg at
// paint time; transitions are never touched by a colour change.
func (e *Engine) Paint(now time.Time, cfg config.Config, dst render.Surface) {
	e.Advance(now)
	e.Scene(cfg).Paint(dst)
}
