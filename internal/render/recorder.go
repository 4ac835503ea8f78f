package render

import "image"

// Recorder is a Surface that keeps the ordered list of calls made on it.
type Recorder struct {
	bounds image.Rectangle
	Calls  []DrawCall
}

func NewRecorder(bounds image.Rectangle) *Recorder {
	return &Recorder{bounds: bounds}
}

func (r *Recorder) Bounds() image.Rectangle { return r.bounds }

func (r *Recorder) FillRect(rect image.Rectangle, c Color) {
	r.Calls = append(r.Calls, DrawCall{Op: OpFillRect, Rect: rect, Color: c})
}

func (r *Recorder) FillCircle(center image.Point, radius int, c Color) {
	r.Calls = append(r.Calls, DrawCall{Op: OpFillCircle, Center: center, Radius: radius, Color: c})
}

func (r *Recorder) DrawCircle(center image.Point, radius int, c Color, width int) {
	r.Calls = append(r.Calls, DrawCall{Op: OpDrawCircle, Center: center, Radius: radius, Color: c, Width: width})
}

func (r *Recorder) FillPolygon(pts []image.Point, c Color) {
	r.Calls = append(r.Calls, DrawCall{Op: OpFillPolygon, Points: clonePoints(pts), Color: c})
}

func (r *Recorder) DrawPolygon(pts []image.Point, c Color, width int) {
	r.Calls = append(r.Calls, DrawCall{Op: OpDrawPolygon, Points: clonePoints(pts), Color: c, Width: width})
}

// Reset drops recorded calls, keeping capacity.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

func clonePoints(pts []image.Point) []image.Point {
	out := make([]image.Point, len(pts))
	copy(out, pts)
	return out
}
