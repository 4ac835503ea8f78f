// Package panel drives a monochrome SSD1306 OLED over I²C.
package panel

import (
	"fmt"
	"image"
	"io"

	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-3angles/internal/config"
	"github.com/coreman2200/funtimes-3angles/internal/driver"
	"github.com/coreman2200/funtimes-3angles/internal/layout"
	"github.com/coreman2200/funtimes-3angles/internal/raster"
	"github.com/coreman2200/funtimes-3angles/internal/render"
)

// Panel paints each frame in the black and white palette, scales it to the
// panel and pushes it to the controller.
type Panel struct {
	dev    *ssd1306.Dev
	closer io.Closer
	w, h   int
	canvas *raster.Canvas
	last   *image1bit.VerticalLSB
}

// addrBus pins every transaction to the configured device address; the
// ssd1306 constructor always talks to 0x3C.
type addrBus struct {
	i2c.Bus
	addr uint16
}

func (b addrBus) Tx(_ uint16, w, r []byte) error { return b.Bus.Tx(b.addr, w, r) }

// Open initialises the host and opens the named I²C bus ("" for the first).
func Open(cfg config.PanelCfg) (*Panel, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("panel: host init: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("panel: open bus %q: %w", cfg.Bus, err)
	}
	p, err := New(bus, cfg)
	if err != nil {
		bus.Close()
		return nil, err
	}
	p.closer = bus
	return p, nil
}

// New wraps an already opened bus.
func New(bus i2c.Bus, cfg config.PanelCfg) (*Panel, error) {
	if cfg.Addr != 0 {
		bus = addrBus{Bus: bus, addr: cfg.Addr}
	}
	dev, err := ssd1306.NewI2C(bus, &ssd1306.Opts{W: cfg.Width, H: cfg.Height})
	if err != nil {
		return nil, fmt.Errorf("panel: init ssd1306: %w", err)
	}
	return &Panel{dev: dev, w: cfg.Width, h: cfg.Height, canvas: raster.New(layout.Bounds())}, nil
}

// Paint draws calls with render.Monochrome so no hand or outline falls
// below the 1-bit threshold, whatever colours are configured.
func (p *Panel) Paint(calls []render.DrawCall) error {
	render.Replay(render.Monochrome(calls), p.canvas)
	return p.Write(p.canvas.Image())
}

// Write thresholds a colour frame as is. Dim colours drop out; frames from
// the face go through Paint instead.
func (p *Panel) Write(img *image.RGBA) error {
	mono := image1bit.NewVerticalLSB(p.dev.Bounds())
	draw.NearestNeighbor.Scale(mono, driver.Fit(img.Bounds(), mono.Bounds()), img, img.Bounds(), draw.Src, nil)
	p.last = mono
	if err := p.dev.Draw(p.dev.Bounds(), mono, image.Point{}); err != nil {
		return fmt.Errorf("panel: draw: %w", err)
	}
	return nil
}

func (p *Panel) Close() error {
	err := p.dev.Halt()
	if p.closer != nil {
		if cerr := p.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

var _ driver.Painter = (*Panel)(nil)

func (p *Panel) String() string { return fmt.Sprintf("ssd1306 %dx%d", p.w, p.h) }
