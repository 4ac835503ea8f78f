// Package layout holds the fixed face geometry: the 144x168 surface and the
// twelve hand-tuned anchor points the hands snap to.
package layout

import (
	"fmt"
	"image"
)

const (
	Width  = 144
	Height = 168

	// Count is the number of anchors on the face.
	Count = 12
)

// anchors[i] is the "i o'clock" position, with index 0 at the top (12).
// The ring is hand-tuned for the screen and is not a true circle.
var anchors = [Count]image.Point{
	{X: 72, Y: 31},
	{X: 96, Y: 39},
	{X: 116, Y: 58},
	{X: 124, Y: 84},
	{X: 116, Y: 110},
	{X: 96, Y: 129},
	{X: 72, Y: 137},
	{X: 48, Y: 129},
	{X: 28, Y: 110},
	{X: 20, Y: 84},
	{X: 28, Y: 58},
	{X: 48, Y: 39},
}

// Point returns anchor i. An index outside 0..Count-1 is a programming error
// and panics; indices produced by the clock sampler are always in range.
func Point(i int) image.Point {
	if i < 0 || i >= Count {
		panic(fmt.Sprintf("layout: anchor index %d out of range [0,%d)", i, Count))
	}
	return anchors[i]
}

// Points returns a copy of the whole anchor table.
func Points() [Count]image.Point { return anchors }

// Bounds is the full drawable face.
func Bounds() image.Rectangle { return image.Rect(0, 0, Width, Height) }

// Center is the middle of the face.
func Center() image.Point { return image.Pt(Width/2, Height/2) }
