// Package ring mirrors the face onto a 12-pixel addressable LED ring, one
// pixel per anchor, with pixel 0 at twelve o'clock.
package ring

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-3angles/internal/config"
	"github.com/coreman2200/funtimes-3angles/internal/layout"
	"github.com/coreman2200/funtimes-3angles/internal/render"
)

// sampleRadius stays inside the largest hand and clear of the neighbouring
// anchors.
const sampleRadius = render.HourOuter - 1

type Ring struct {
	dev        *nrzled.Dev
	closer     io.Closer
	brightness uint8
	buf        []byte
}

func Open(cfg config.RingCfg) (*Ring, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("ring: host init: %w", err)
	}
	p, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("ring: open spi %q: %w", cfg.Port, err)
	}
	r, err := New(p, cfg)
	if err != nil {
		p.Close()
		return nil, err
	}
	r.closer = p
	return r, nil
}

func New(p spi.Port, cfg config.RingCfg) (*Ring, error) {
	freq := physic.Frequency(cfg.FreqKHz) * physic.KiloHertz
	if freq <= 0 {
		freq = 2500 * physic.KiloHertz
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: layout.Count,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("ring: init: %w", err)
	}
	return &Ring{dev: d, brightness: cfg.Brightness, buf: make([]byte, 3*layout.Count)}, nil
}

func (r *Ring) Write(img *image.RGBA) error {
	px := Sample(img)
	for i, c := range px {
		r.buf[3*i+0] = scale(c.R, r.brightness)
		r.buf[3*i+1] = scale(c.G, r.brightness)
		r.buf[3*i+2] = scale(c.B, r.brightness)
	}
	if _, err := r.dev.Write(r.buf); err != nil {
		return fmt.Errorf("ring: write: %w", err)
	}
	return nil
}

func (r *Ring) Close() error {
	err := r.dev.Halt()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Sample picks one colour per anchor: the most common non-background colour
// in a disc around it, so a hand shows its ring colour and an empty anchor
// shows its dot. Anti-aliased edge pixels rarely repeat and lose the vote.
func Sample(img *image.RGBA) [layout.Count]color.RGBA {
	var out [layout.Count]color.RGBA
	b := img.Bounds()
	bg := img.RGBAAt(b.Min.X, b.Min.Y)
	votes := make(map[color.RGBA]int)
	for i, p := range layout.Points() {
		clear(votes)
		for dy := -sampleRadius; dy <= sampleRadius; dy++ {
			for dx := -sampleRadius; dx <= sampleRadius; dx++ {
				if dx*dx+dy*dy > sampleRadius*sampleRadius {
					continue
				}
				q := p.Add(b.Min).Add(image.Pt(dx, dy))
				if !q.In(b) {
					continue
				}
				if c := img.RGBAAt(q.X, q.Y); c != bg {
					votes[c]++
				}
			}
		}
		best, n := bg, 0
		for c, v := range votes {
			if v > n || (v == n && less(c, best)) {
				best, n = c, v
			}
		}
		out[i] = best
	}
	return out
}

// less orders colours so ties resolve the same way on every run.
func less(a, b color.RGBA) bool {
	if a.R != b.R {
		return a.R < b.R
	}
	if a.G != b.G {
		return a.G < b.G
	}
	return a.B < b.B
}

func scale(v, brightness uint8) uint8 {
	return uint8(uint16(v) * uint16(brightness) / 255)
}
