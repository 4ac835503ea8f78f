package raster

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/funtimes-3angles/internal/layout"
	"github.com/coreman2200/funtimes-3angles/internal/render"
)

const red render.Color = 0xFF0000

func TestFillRectClips(t *testing.T) {
	c := New(image.Rect(0, 0, 10, 10))
	c.FillRect(image.Rect(-5, -5, 3, 3), red)
	assert.Equal(t, red, c.At(image.Pt(0, 0)))
	assert.Equal(t, red, c.At(image.Pt(2, 2)))
	assert.Equal(t, render.Black, c.At(image.Pt(3, 3)))
}

func TestFillCircle(t *testing.T) {
	c := New(image.Rect(0, 0, 40, 40))
	c.FillCircle(image.Pt(20, 20), 8, red)
	assert.Equal(t, red, c.At(image.Pt(20, 20)))
	assert.Equal(t, red, c.At(image.Pt(25, 20)))
	assert.Equal(t, render.Black, c.At(image.Pt(30, 20)))
	assert.Equal(t, render.Black, c.At(image.Pt(27, 27)))
}

func TestDrawCircleLeavesHole(t *testing.T) {
	c := New(image.Rect(0, 0, 40, 40))
	c.DrawCircle(image.Pt(20, 20), 10, red, 3)
	assert.Equal(t, render.Black, c.At(image.Pt(20, 20)))
	assert.Equal(t, render.Black, c.At(image.Pt(25, 20)))
	assert.Equal(t, red, c.At(image.Pt(30, 20)))
	assert.Equal(t, red, c.At(image.Pt(20, 10)))
	assert.Equal(t, render.Black, c.At(image.Pt(34, 20)))
}

func TestFillPolygon(t *testing.T) {
	c := New(image.Rect(0, 0, 40, 40))
	c.FillPolygon([]image.Point{{5, 5}, {35, 5}, {5, 35}}, red)
	assert.Equal(t, red, c.At(image.Pt(10, 10)))
	assert.Equal(t, render.Black, c.At(image.Pt(33, 33)))
}

func TestDrawPolygonOutlineOnly(t *testing.T) {
	c := New(image.Rect(0, 0, 40, 40))
	c.DrawPolygon([]image.Point{{5, 5}, {35, 5}, {5, 35}}, red, 3)
	assert.Equal(t, render.Black, c.At(image.Pt(12, 12)))
	assert.Equal(t, red, c.At(image.Pt(20, 5)))
	assert.Equal(t, red, c.At(image.Pt(5, 20)))
	assert.Equal(t, red, c.At(image.Pt(5, 5)))
}

func TestReplayScene(t *testing.T) {
	s := render.Scene{
		Background: render.Black,
		Accent:     render.Cyan,
		Hour:       layout.Point(0),
		Minute:     layout.Point(6),
		Second:     layout.Point(3),
	}
	rec := render.NewRecorder(layout.Bounds())
	s.Paint(rec)

	c := New(layout.Bounds())
	render.Replay(rec.Calls, c)

	assert.Equal(t, render.Cyan, c.At(image.Pt(90, 84)), "triangle interior")
	assert.Equal(t, render.Black, c.At(s.Hour), "hour centre")
	assert.Equal(t, render.White, c.At(s.Hour.Add(image.Pt(10, 0))), "hour ring")
	assert.Equal(t, render.Black, c.At(image.Pt(2, 2)))
	assert.Equal(t, render.Cyan, c.At(layout.Point(9)), "dot")
}
