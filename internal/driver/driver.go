// Package driver defines the output sink for rendered frames.
package driver

import (
	"errors"
	"image"

	"github.com/coreman2200/funtimes-3angles/internal/render"
)

// Driver abstracts a frame output sink.
type Driver interface {
	// Write pushes a full frame. Drivers must not retain img after returning.
	Write(img *image.RGBA) error
	// Close releases resources.
	Close() error
}

// Painter is a Driver that rasterises the draw calls itself instead of
// taking the shared colour frame, for sinks with their own palette.
type Painter interface {
	Driver
	Paint(calls []render.DrawCall) error
}

// Present sends one frame to d. Painters get the calls, every other driver
// gets img; members of a Fanout are dispatched one by one.
func Present(d Driver, calls []render.DrawCall, img *image.RGBA) error {
	switch d := d.(type) {
	case Fanout:
		var errs []error
		for _, m := range d {
			if err := Present(m, calls, img); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	case Painter:
		return d.Paint(calls)
	default:
		return d.Write(img)
	}
}

// Fanout writes every frame to each driver in turn. A failing driver does
// not stop the others.
type Fanout []Driver

func (f Fanout) Write(img *image.RGBA) error {
	var errs []error
	for _, d := range f {
		if err := d.Write(img); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, d := range f {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Fit returns the largest rectangle with src's aspect ratio centred in dst.
func Fit(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw == 0 || sh == 0 {
		return image.Rectangle{}
	}
	w, h := dw, dw*sh/sw
	if h > dh {
		w, h = dh*sw/sh, dh
	}
	x := dst.Min.X + (dw-w)/2
	y := dst.Min.Y + (dh-h)/2
	return image.Rect(x, y, x+w, y+h)
}
