// Package render holds the drawing vocabulary shared by both face modes: the
// primitive surface API, a recorder that captures draw calls, and the scene
// painter that fixes the z-order of everything on the face.
package render

import (
	"fmt"
	"image"
)

// Surface receives primitive draw calls. Later calls occlude earlier ones.
type Surface interface {
	Bounds() image.Rectangle
	FillRect(r image.Rectangle, c Color)
	FillCircle(center image.Point, radius int, c Color)
	DrawCircle(center image.Point, radius int, c Color, width int)
	FillPolygon(pts []image.Point, c Color)
	DrawPolygon(pts []image.Point, c Color, width int)
}

type Op uint8

const (
	OpFillRect Op = iota
	OpFillCircle
	OpDrawCircle
	OpFillPolygon
	OpDrawPolygon
)

func (o Op) String() string {
	switch o {
	case OpFillRect:
		return "fill-rect"
	case OpFillCircle:
		return "fill-circle"
	case OpDrawCircle:
		return "draw-circle"
	case OpFillPolygon:
		return "fill-polygon"
	case OpDrawPolygon:
		return "draw-polygon"
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

// DrawCall is one recorded primitive. Only the fields relevant to Op are set.
type DrawCall struct {
	Op     Op
	Color  Color
	Rect   image.Rectangle
	Center image.Point
	Radius int
	Points []image.Point
	Width  int
}

func (d DrawCall) String() string {
	switch d.Op {
	case OpFillRect:
		return fmt.Sprintf("%s %v %s", d.Op, d.Rect, d.Color)
	case OpFillCircle:
		return fmt.Sprintf("%s %v r=%d %s", d.Op, d.Center, d.Radius, d.Color)
	case OpDrawCircle:
		return fmt.Sprintf("%s %v r=%d w=%d %s", d.Op, d.Center, d.Radius, d.Width, d.Color)
	case OpFillPolygon:
		return fmt.Sprintf("%s %v %s", d.Op, d.Points, d.Color)
	default:
		return fmt.Sprintf("%s %v w=%d %s", d.Op, d.Points, d.Width, d.Color)
	}
}

// Apply issues the call against s.
func (d DrawCall) Apply(s Surface) {
	switch d.Op {
	case OpFillRect:
		s.FillRect(d.Rect, d.Color)
	case OpFillCircle:
		s.FillCircle(d.Center, d.Radius, d.Color)
	case OpDrawCircle:
		s.DrawCircle(d.Center, d.Radius, d.Color, d.Width)
	case OpFillPolygon:
		s.FillPolygon(d.Points, d.Color)
	case OpDrawPolygon:
		s.DrawPolygon(d.Points, d.Color, d.Width)
	}
}

// Replay issues every call in order against s.
func Replay(calls []DrawCall, s Surface) {
	for _, c := range calls {
		c.Apply(s)
	}
}
