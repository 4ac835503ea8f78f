package animation

import (
	"fmt"
	"image"
	"time"

	"github.com/coreman2200/funtimes-3angles/internal/layout"
	"github.com/coreman2200/funtimes-3angles/internal/render"
)

// Role identifies one of the three hands.
type Role int

const (
	Second Role = iota
	Minute
	Hour
)

// Roles lists every hand in cascade order.
var Roles = [...]Role{Second, Minute, Hour}

func (r Role) String() string {
	switch r {
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Radii returns the outer disc and inner ring radius for the hand.
func (r Role) Radii() (outer, inner int) {
	switch r {
	case Hour:
		return render.HourOuter, render.HourInner
	case Minute:
		return render.MinuteOuter, render.MinuteInner
	default:
		return render.SecondOuter, render.SecondInner
	}
}

// FrameAt is the layer frame for role centred on p.
func FrameAt(role Role, p image.Point) image.Rectangle {
	outer, _ := role.Radii()
	return image.Rect(p.X-outer, p.Y-outer, p.X+outer, p.Y+outer)
}

// State is where a layer is in its transition lifecycle.
type State int

const (
	Idle State = iota
	Animating
)

func (s State) String() string {
	if s == Animating {
		return "animating"
	}
	return "idle"
}

// transition is the record of an in-flight move. A layer holds at most one;
// scheduling a new move replaces it outright.
type transition struct {
	from, to image.Rectangle
	start    time.Time
	dur      time.Duration
}

// Layer is one independently animated hand. Its frame is authoritative: it
// is what gets drawn and what the triangle follows, whatever the clock says.
type Layer struct {
	role   Role
	frame  image.Rectangle
	target int
	state  State
	tr     transition
}

func newLayer(role Role, at image.Point) *Layer {
	return &Layer{role: role, frame: FrameAt(role, at), target: -1}
}

func (l *Layer) Role() Role { return l.role }

// Frame is the current, possibly interpolated, frame.
func (l *Layer) Frame() image.Rectangle { return l.frame }

// Center is the middle of the current frame.
func (l *Layer) Center() image.Point {
	return image.Pt((l.frame.Min.X+l.frame.Max.X)/2, (l.frame.Min.Y+l.frame.Max.Y)/2)
}

// Target is the anchor index of the last scheduled move, -1 before any.
func (l *Layer) Target() int { return l.target }

func (l *Layer) State() State { return l.state }

// animateTo starts a move to anchor. If a move is already in flight, the
// frame is first sampled at now so the new move starts where the hand is
// actually drawn; the old record is then dropped and never completes.
func (l *Layer) animateTo(anchor int, now time.Time, dur time.Duration, curve Curve) {
	if l.state == Animating {
		l.frame = l.sample(now, curve)
	}
	l.target = anchor
	l.tr = transition{
		from:  l.frame,
		to:    FrameAt(l.role, layout.Point(anchor)),
		start: now,
		dur:   dur,
	}
	l.state = Animating
}

// advance moves the frame to its position at now and reports whether the
// transition finished on this call.
func (l *Layer) advance(now time.Time, curve Curve) bool {
	if l.state != Animating {
		return false
	}
	l.frame = l.sample(now, curve)
	if l.progress(now) < 1 {
		return false
	}
	l.state = Idle
	return true
}

func (l *Layer) progress(now time.Time) float64 {
	if l.tr.dur <= 0 {
		return 1
	}
	return clamp01(float64(now.Sub(l.tr.start)) / float64(l.tr.dur))
}

func (l *Layer) sample(now time.Time, curve Curve) image.Rectangle {
	p := l.progress(now)
	if p >= 1 {
		return l.tr.to
	}
	if curve != nil {
		p = curve(p)
	}
	return LerpRect(l.tr.from, l.tr.to, p)
}
