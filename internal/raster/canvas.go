// Package raster turns draw calls into pixels. Canvas implements
// render.Surface over an RGBA image with anti-aliased shapes.
package raster

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/coreman2200/funtimes-3angles/internal/render"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

type Canvas struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

func New(bounds image.Rectangle) *Canvas {
	return &Canvas{
		img: image.NewRGBA(bounds),
		z:   vector.NewRasterizer(bounds.Dx(), bounds.Dy()),
	}
}

// Image is the backing image. It is reused between frames.
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

func (c *Canvas) FillRect(r image.Rectangle, col render.Color) {
	r = r.Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(col.RGBA()), image.Point{}, draw.Src)
}

func (c *Canvas) FillCircle(center image.Point, radius int, col render.Color) {
	if radius <= 0 {
		return
	}
	c.begin()
	cx, cy := c.local(center)
	c.circle(cx, cy, float32(radius), false)
	c.flush(col)
}

// DrawCircle strokes a ring of the given width centred on radius.
func (c *Canvas) DrawCircle(center image.Point, radius int, col render.Color, width int) {
	if radius <= 0 || width <= 0 {
		return
	}
	half := float32(width) / 2
	c.begin()
	cx, cy := c.local(center)
	c.circle(cx, cy, float32(radius)+half, false)
	if inner := float32(radius) - half; inner > 0 {
		c.circle(cx, cy, inner, true)
	}
	c.flush(col)
}

func (c *Canvas) FillPolygon(pts []image.Point, col render.Color) {
	if len(pts) < 3 {
		return
	}
	c.begin()
	x, y := c.local(pts[0])
	c.z.MoveTo(x, y)
	for _, p := range pts[1:] {
		x, y = c.local(p)
		c.z.LineTo(x, y)
	}
	c.z.ClosePath()
	c.flush(col)
}

// DrawPolygon strokes each closed edge as a quad with round joins. Pieces are
// rasterised one at a time so overlapping windings never cancel.
func (c *Canvas) DrawPolygon(pts []image.Point, col render.Color, width int) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	half := float64(width) / 2
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		c.edge(a, b, half, col)
		c.begin()
		x, y := c.local(a)
		c.circle(x, y, float32(half), false)
		c.flush(col)
	}
}

func (c *Canvas) edge(a, b image.Point, half float64, col render.Color) {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := float32(-dy/l*half), float32(dx/l*half)
	ax, ay := c.local(a)
	bx, by := c.local(b)
	c.begin()
	c.z.MoveTo(ax+nx, ay+ny)
	c.z.LineTo(bx+nx, by+ny)
	c.z.LineTo(bx-nx, by-ny)
	c.z.LineTo(ax-nx, ay-ny)
	c.z.ClosePath()
	c.flush(col)
}

// circle adds a closed circular subpath; reverse flips the winding so it
// punches a hole in a same-pass outer circle.
func (c *Canvas) circle(cx, cy, r float32, reverse bool) {
	k := r * kappa
	if !reverse {
		c.z.MoveTo(cx+r, cy)
		c.z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
		c.z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
		c.z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
		c.z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	} else {
		c.z.MoveTo(cx+r, cy)
		c.z.CubeTo(cx+r, cy-k, cx+k, cy-r, cx, cy-r)
		c.z.CubeTo(cx-k, cy-r, cx-r, cy-k, cx-r, cy)
		c.z.CubeTo(cx-r, cy+k, cx-k, cy+r, cx, cy+r)
		c.z.CubeTo(cx+k, cy+r, cx+r, cy+k, cx+r, cy)
	}
	c.z.ClosePath()
}

// local maps a pixel to the centre of that pixel in rasteriser space.
func (c *Canvas) local(p image.Point) (float32, float32) {
	o := c.img.Bounds().Min
	return float32(p.X-o.X) + 0.5, float32(p.Y-o.Y) + 0.5
}

func (c *Canvas) begin() {
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
	c.z.DrawOp = draw.Over
}

func (c *Canvas) flush(col render.Color) {
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(col.RGBA()), image.Point{})
}

// At returns the colour at p, dropping alpha.
func (c *Canvas) At(p image.Point) render.Color {
	px := c.img.RGBAAt(p.X, p.Y)
	return render.Color(uint32(px.R)<<16 | uint32(px.G)<<8 | uint32(px.B))
}

var _ render.Surface = (*Canvas)(nil)
