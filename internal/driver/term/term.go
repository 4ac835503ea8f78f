// Package term previews the face in a terminal using half-block cells, two
// pixels per cell.
package term

import (
	"fmt"
	"image"
	"sync"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"

	"github.com/coreman2200/funtimes-3angles/internal/driver"
)

const halfBlock = '▀'

type Preview struct {
	screen tcell.Screen
	done   chan struct{}
	once   sync.Once
	buf    *image.RGBA
}

// New opens the controlling terminal.
func New() (*Preview, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("term: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("term: init: %w", err)
	}
	return NewWithScreen(s), nil
}

// NewWithScreen uses an initialised screen and starts watching it for the
// quit keys (q, Esc, Ctrl-C).
func NewWithScreen(s tcell.Screen) *Preview {
	p := &Preview{screen: s, done: make(chan struct{})}
	s.HideCursor()
	s.Clear()
	go p.poll()
	return p
}

// Done is closed once the user asks to quit.
func (p *Preview) Done() <-chan struct{} { return p.done }

func (p *Preview) poll() {
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			p.quit()
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				p.quit()
				return
			}
		case *tcell.EventResize:
			p.screen.Sync()
		}
	}
}

func (p *Preview) quit() { p.once.Do(func() { close(p.done) }) }

func (p *Preview) Write(img *image.RGBA) error {
	w, h := p.screen.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	grid := image.Rect(0, 0, w, 2*h)
	if p.buf == nil || p.buf.Bounds() != grid {
		p.buf = image.NewRGBA(grid)
	} else {
		clear(p.buf.Pix)
	}
	draw.NearestNeighbor.Scale(p.buf, driver.Fit(img.Bounds(), grid), img, img.Bounds(), draw.Src, nil)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			top, bot := p.buf.RGBAAt(x, 2*y), p.buf.RGBAAt(x, 2*y+1)
			st := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bot.R), int32(bot.G), int32(bot.B)))
			p.screen.SetContent(x, y, halfBlock, nil, st)
		}
	}
	p.screen.Show()
	return nil
}

// Close restores the terminal.
func (p *Preview) Close() error {
	p.screen.Fini()
	p.quit()
	return nil
}
