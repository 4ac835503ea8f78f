package face

import (
	"github.com/coreman2200/funtimes-3angles/internal/clock"
	"github.com/coreman2200/funtimes-3angles/internal/config"
	"github.com/coreman2200/funtimes-3angles/internal/layout"
	"github.com/coreman2200/funtimes-3angles/internal/render"
)

// Immediate redraws the whole face from the sampled indices and the current
// config. It keeps no state between frames.
type Immediate struct{}

// Render paints the face for sample. Identical inputs give identical calls.
func (Immediate) Render(sample clock.TimeSample, cfg config.Config, dst render.Surface) {
	render.Scene{
		Background: cfg.Background,
		Accent:     cfg.Accent,
		Hour:       layout.Point(sample.Hour),
		Minute:     layout.Point(sample.Minute),
		Second:     layout.Point(sample.Second),
	}.Paint(dst)
}
