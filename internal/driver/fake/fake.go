// Package fake is an in-memory frame sink for headless runs and tests.
package fake

import (
	"fmt"
	"image"
	"io"
	"sync"
)

// Driver counts frames and keeps a copy of the last one. With Out set it
// prints a one-line summary per frame.
type Driver struct {
	mu     sync.Mutex
	Count  int
	Last   *image.RGBA
	Closed bool
	// Err, when set, is returned from Write instead of accepting the frame.
	Err error
	Out io.Writer
}

func (d *Driver) Write(img *image.RGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.Count++
	if d.Last == nil || d.Last.Bounds() != img.Bounds() {
		d.Last = image.NewRGBA(img.Bounds())
	}
	copy(d.Last.Pix, img.Pix)

	if d.Out != nil {
		var r, g, b float64
		n := 0
		for i := 0; i+3 < len(img.Pix); i += 4 {
			r += float64(img.Pix[i])
			g += float64(img.Pix[i+1])
			b += float64(img.Pix[i+2])
			n++
		}
		if n == 0 {
			n = 1
		}
		fmt.Fprintf(d.Out, "[frame %04d] avg=(%.1f,%.1f,%.1f)\n",
			d.Count, r/float64(n), g/float64(n), b/float64(n))
	}
	return nil
}

// Frames returns the number of frames written so far.
func (d *Driver) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Count
}

// LastFrame returns a copy of the most recent frame, nil before the first.
func (d *Driver) LastFrame() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Last == nil {
		return nil
	}
	out := image.NewRGBA(d.Last.Bounds())
	copy(out.Pix, d.Last.Pix)
	return out
}

func (d *Driver) Close() error {
	d.mu.Lock()
	d.Closed = true
	d.mu.Unlock()
	return nil
}
