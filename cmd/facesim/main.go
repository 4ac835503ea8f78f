// facesim runs the face headless over a simulated time range and prints the
// frames it would present.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-3angles/internal/app"
	"github.com/coreman2200/funtimes-3angles/internal/clock"
	"github.com/coreman2200/funtimes-3angles/internal/config"
	"github.com/coreman2200/funtimes-3angles/internal/driver"
	"github.com/coreman2200/funtimes-3angles/internal/driver/fake"
	"github.com/coreman2200/funtimes-3angles/internal/driver/snapshot"
	"github.com/coreman2200/funtimes-3angles/internal/face"
	"github.com/coreman2200/funtimes-3angles/internal/render"
)

func main() {
	var (
		modeName   = flag.String("mode", "animated", "face mode: immediate | animated")
		startAt    = flag.String("start", "11:59:50", "simulated start time (15:04:05)")
		duration   = flag.Duration("duration", 20*time.Second, "simulated time span")
		fps        = flag.Int("fps", 30, "refresh rate while hands move")
		transition = flag.Duration("transition", 250*time.Millisecond, "hand move duration")
		accent     = flag.String("accent", "#00FFFF", "accent colour")
		bg         = flag.String("bg", "#000000", "background colour")
		calls      = flag.Bool("calls", false, "print every draw call")
		snap       = flag.String("snapshot", "", "write the last frame here (.webp or .png)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(level)

	mode, err := face.ParseMode(*modeName)
	if err != nil {
		log.Fatal().Err(err).Msg("bad mode")
	}
	tod, err := time.Parse("15:04:05", *startAt)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -start")
	}
	start := time.Date(2024, time.January, 1, tod.Hour(), tod.Minute(), tod.Second(), 0, time.Local)

	store := config.Open(config.NewMemSlots(), log.Logger)
	for key, hex := range map[config.Key]string{config.KeyAccent: *accent, config.KeyBackground: *bg} {
		v, err := parseColor(hex)
		if err != nil {
			log.Fatal().Err(err).Stringer("key", key).Msg("bad colour")
		}
		if _, err := store.ApplyUpdate(key, v); err != nil {
			log.Fatal().Err(err).Stringer("key", key).Msg("apply colour")
		}
	}

	clk := clock.NewFake(start)
	f := face.New(store, clk, face.Options{Mode: mode, Transition: *transition, Logger: log.Logger})

	outputs := driver.Fanout{&fake.Driver{}}
	if *snap != "" {
		sd, err := snapshot.New(*snap, 0)
		if err != nil {
			log.Fatal().Err(err).Msg("snapshot")
		}
		outputs = append(outputs, sd)
	}

	frame := 0
	core := app.NewCore(f, clk, outputs, app.Options{
		FPS:    *fps,
		Logger: log.Logger,
		Trace: func(dc []render.DrawCall) {
			frame++
			fmt.Printf("[%s] frame %04d: %d calls\n", clk.Now().Format("15:04:05.000"), frame, len(dc))
			if *calls {
				for _, c := range dc {
					fmt.Printf("    %s\n", c)
				}
			}
		},
	})

	if err := core.Prime(); err != nil {
		log.Fatal().Err(err).Msg("activate")
	}
	step := time.Second / time.Duration(max(1, *fps))
	for sec := time.Duration(1); sec <= *duration/time.Second; sec++ {
		base := start.Add((sec - 1) * time.Second)
		for t := base.Add(step); t.Before(base.Add(time.Second)) && f.NeedsFrame(); t = t.Add(step) {
			clk.Set(t)
			if err := core.Step(face.Refresh{Time: t}); err != nil {
				log.Fatal().Err(err).Msg("refresh")
			}
		}
		now := start.Add(sec * time.Second)
		clk.Set(now)
		if err := core.Step(face.Tick{Time: now}); err != nil {
			log.Fatal().Err(err).Msg("tick")
		}
	}
	f.Deactivate()

	if err := outputs.Close(); err != nil {
		log.Fatal().Err(err).Msg("close outputs")
	}
	log.Info().Int("frames", frame).Str("snapshot", *snap).Msg("simulation done")
}

// parseColor accepts "#RRGGBB" and returns the 24-bit value.
func parseColor(s string) (int64, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return int64(r)<<16 | int64(g)<<8 | int64(b), nil
}
