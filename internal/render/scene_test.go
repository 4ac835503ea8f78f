package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-3angles/internal/layout"
)

func sampleScene(bg Color) Scene {
	return Scene{
		Background: bg,
		Accent:     Cyan,
		Hour:       layout.Point(0),
		Minute:     layout.Point(6),
		Second:     layout.Point(3),
	}
}

func TestScenePaintOrder(t *testing.T) {
	rec := NewRecorder(layout.Bounds())
	sampleScene(Black).Paint(rec)

	calls := rec.Calls
	require.Len(t, calls, 3+layout.Count+6)

	assert.Equal(t, DrawCall{Op: OpFillRect, Rect: layout.Bounds(), Color: Black}, calls[0])

	tri := []image.Point{{124, 84}, {72, 137}, {72, 31}}
	assert.Equal(t, DrawCall{Op: OpFillPolygon, Points: tri, Color: Cyan}, calls[1])
	assert.Equal(t, DrawCall{Op: OpDrawPolygon, Points: tri, Color: Cyan, Width: StrokeWidth}, calls[2])

	for i := 0; i < layout.Count; i++ {
		assert.Equal(t, DrawCall{Op: OpFillCircle, Center: layout.Point(i), Radius: DotRadius, Color: Cyan}, calls[3+i])
	}

	hands := calls[3+layout.Count:]
	assert.Equal(t, []DrawCall{
		{Op: OpFillCircle, Center: image.Pt(72, 31), Radius: 12, Color: Black},
		{Op: OpDrawCircle, Center: image.Pt(72, 31), Radius: 10, Color: White, Width: StrokeWidth},
		{Op: OpFillCircle, Center: image.Pt(72, 137), Radius: 10, Color: Black},
		{Op: OpDrawCircle, Center: image.Pt(72, 137), Radius: 8, Color: LightGray, Width: StrokeWidth},
		{Op: OpFillCircle, Center: image.Pt(124, 84), Radius: 8, Color: Black},
		{Op: OpDrawCircle, Center: image.Pt(124, 84), Radius: 5, Color: DarkGray, Width: StrokeWidth},
	}, hands)
}

func TestSceneHourRingOnWhite(t *testing.T) {
	rec := NewRecorder(layout.Bounds())
	sampleScene(White).Paint(rec)
	ring := rec.Calls[3+layout.Count+1]
	assert.Equal(t, OpDrawCircle, ring.Op)
	assert.Equal(t, Black, ring.Color)
}

func TestReplayReproducesCalls(t *testing.T) {
	a := NewRecorder(layout.Bounds())
	sampleScene(Color(0x123456)).Paint(a)

	b := NewRecorder(layout.Bounds())
	Replay(a.Calls, b)
	assert.Equal(t, a.Calls, b.Calls)
}

func TestRecorderCopiesPoints(t *testing.T) {
	rec := NewRecorder(layout.Bounds())
	pts := []image.Point{{1, 1}, {2, 2}, {3, 1}}
	rec.FillPolygon(pts, White)
	pts[0] = image.Pt(9, 9)
	assert.Equal(t, image.Pt(1, 1), rec.Calls[0].Points[0])
}

func TestMonochromeIgnoresConfiguredColours(t *testing.T) {
	s := sampleScene(Color(0x000055))
	s.Accent = Color(0x000055)
	rec := NewRecorder(layout.Bounds())
	s.Paint(rec)

	mono := Monochrome(rec.Calls)
	require.Len(t, mono, len(rec.Calls))
	assert.Equal(t, Black, mono[0].Color, "background")
	assert.Equal(t, White, mono[1].Color, "triangle fill")
	assert.Equal(t, White, mono[2].Color, "triangle outline")
	for i := 0; i < layout.Count; i++ {
		assert.Equal(t, White, mono[3+i].Color, "dot %d", i)
	}
	hands := mono[3+layout.Count:]
	for i, want := range []Color{Black, White, Black, White, Black, White} {
		assert.Equal(t, want, hands[i].Color, "hand call %d", i)
	}
	assert.Equal(t, DarkGray, rec.Calls[len(rec.Calls)-1].Color, "input untouched")
}
