package render

import (
	"image"

	"github.com/coreman2200/funtimes-3angles/internal/layout"
)

// Marker geometry. Each hand is a background-filled disc with a thinner ring.
const (
	StrokeWidth = 3
	DotRadius   = 2

	HourOuter   = 12
	HourInner   = 10
	MinuteOuter = 10
	MinuteInner = 8
	SecondOuter = 8
	SecondInner = 5
)

// Scene is everything needed to paint one frame. Hand positions are whatever
// the caller says they are: anchor points in immediate mode, live layer
// centres while animating.
type Scene struct {
	Background Color
	Accent     Color

	Hour   image.Point
	Minute image.Point
	Second image.Point
}

// Triangle returns the overlay vertices in second, minute, hour order.
func (s Scene) Triangle() []image.Point {
	return []image.Point{s.Second, s.Minute, s.Hour}
}

// Paint draws the scene. The order is the visible z-order and must not change:
// background, triangle, anchor dots, then hour, minute and second markers.
func (s Scene) Paint(dst Surface) {
	dst.FillRect(dst.Bounds(), s.Background)

	tri := s.Triangle()
	dst.FillPolygon(tri, s.Accent)
	dst.DrawPolygon(tri, s.Accent, StrokeWidth)

	for _, p := range layout.Points() {
		dst.FillCircle(p, DotRadius, s.Accent)
	}

	dst.FillCircle(s.Hour, HourOuter, s.Background)
	dst.DrawCircle(s.Hour, HourInner, s.Background.Contrast(), StrokeWidth)

	dst.FillCircle(s.Minute, MinuteOuter, s.Background)
	dst.DrawCircle(s.Minute, MinuteInner, LightGray, StrokeWidth)

	dst.FillCircle(s.Second, SecondOuter, s.Background)
	dst.DrawCircle(s.Second, SecondInner, DarkGray, StrokeWidth)
}

// Monochrome repaints a frame for 1-bit sinks the way the black and white
// watches draw it: configured colours are ignored, the background and the
// hand discs are black, and everything else is white. Hand discs are the
// only fill circles larger than an anchor dot.
func Monochrome(calls []DrawCall) []DrawCall {
	out := make([]DrawCall, len(calls))
	for i, c := range calls {
		switch {
		case c.Op == OpFillRect, c.Op == OpFillCircle && c.Radius > DotRadius:
			c.Color = Black
		default:
			c.Color = White
		}
		out[i] = c
	}
	return out
}
