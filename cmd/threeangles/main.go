package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-3angles/internal/app"
	"github.com/coreman2200/funtimes-3angles/internal/clock"
	"github.com/coreman2200/funtimes-3angles/internal/config"
	diag "github.com/coreman2200/funtimes-3angles/internal/diagnostics"
	"github.com/coreman2200/funtimes-3angles/internal/driver"
	"github.com/coreman2200/funtimes-3angles/internal/driver/fake"
	"github.com/coreman2200/funtimes-3angles/internal/driver/panel"
	"github.com/coreman2200/funtimes-3angles/internal/driver/ring"
	"github.com/coreman2200/funtimes-3angles/internal/driver/snapshot"
	"github.com/coreman2200/funtimes-3angles/internal/driver/term"
	"github.com/coreman2200/funtimes-3angles/internal/face"
	"github.com/coreman2200/funtimes-3angles/internal/ws"
)

func main() {
	// ---- Flags (config.yaml overrides where set) ----
	d := config.DefaultSettings()
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		mode       = flag.String("mode", d.Mode, "face mode: immediate | animated")
		drv        = flag.String("driver", d.Driver, "comma separated outputs: panel, ring, term, sim")
		statePath  = flag.String("state", d.StatePath, "persisted colour slots (yaml)")
		fps        = flag.Int("fps", d.FPS, "refresh rate while hands move")
		transition = flag.Duration("transition", d.Transition(), "hand move duration")
		addr       = flag.String("addr", ":8080", "HTTP listen address, empty to disable")
		snap       = flag.String("snapshot", "", "write the last frame here on exit (.webp or .png)")
		logPath    = flag.String("log", "", "log file; defaults to stdout, or threeangles.log with the term driver")
	)
	flag.Parse()

	fromFlags := config.Settings{
		Mode:         *mode,
		Driver:       *drv,
		StatePath:    *statePath,
		FPS:          *fps,
		TransitionMs: int(transition.Milliseconds()),
		Addr:         *addr,
		Snapshot:     *snap,
	}

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	out := io.Writer(os.Stdout)
	if *logPath == "" && strings.Contains(*drv, "term") {
		*logPath = "threeangles.log"
	}
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatal().Err(err).Str("path", *logPath).Msg("open log")
		}
		defer f.Close()
		out = f
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: *logPath != ""})

	// ---- Settings ----
	s := fromFlags
	if fileCfg, err := config.LoadSettings(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		s = fileCfg.Merge(fromFlags)
	}
	s = s.Merge(d)

	faceMode, err := face.ParseMode(s.Mode)
	if err != nil {
		log.Fatal().Err(err).Msg("bad mode")
	}

	// ---- State ----
	slots, err := config.OpenFileSlots(s.StatePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", s.StatePath).Msg("open state")
	}
	store := config.Open(slots, log.Logger)
	log.Info().
		Stringer("accent", store.Current().Accent).
		Stringer("background", store.Current().Background).
		Bool("configured", store.Current().Configured).
		Msg("config loaded")

	hub := ws.NewHub(log.Logger)
	f := face.New(store, clock.Real{}, face.Options{
		Mode:       faceMode,
		Transition: s.Transition(),
		Logger:     log.Logger,
		OnConfigError: func(u face.ConfigUpdate, err error) {
			switch {
			case errors.Is(err, config.ErrPersist):
				hub.PushDiag(diag.Persist(u.Key.String(), err))
			case errors.Is(err, config.ErrMalformed):
				hub.PushDiag(diag.Diagnostic{Severity: diag.Warn, Code: diag.ConfigMalformed, Summary: "Config update dropped", Detail: err.Error()})
			}
		},
	})

	// ---- Outputs ----
	outputs, quit := openDrivers(s)
	outputs = append(outputs, hub)

	core := app.NewCore(f, clock.Real{}, driver.Fanout(outputs), app.Options{
		FPS:    s.FPS,
		Logger: log.Logger,
		OnDriverError: func(err error) {
			hub.PushDiag(diag.DriverFailed(s.Driver, err))
		},
		OnFatal: func(err error) {
			if errors.Is(err, clock.ErrUnavailable) {
				hub.PushDiag(diag.ClockUnavailable(err))
			}
		},
	})
	hub.OnUpdate = func(u config.Update) bool {
		return core.Submit(face.ConfigUpdate{Key: u.Key, Value: u.Value})
	}
	hub.Status = core.Status

	// ---- HTTP ----
	var srv *http.Server
	if s.Addr != "" {
		srv = &http.Server{
			Addr:         s.Addr,
			Handler:      withCORS(hub.Routes()),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", s.Addr).Str("driver", s.Driver).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("http server crashed")
			}
		}()
	}

	// ---- Run ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := core.Activate(ctx); err != nil {
		log.Fatal().Err(err).Msg("face failed to start")
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("signal received, shutting down")
	case <-quit:
		log.Info().Msg("preview closed, shutting down")
	case <-core.Done():
	}

	core.Deactivate()
	if srv != nil {
		_ = srv.Close()
	}
	if err := driver.Fanout(outputs).Close(); err != nil {
		log.Warn().Err(err).Msg("closing outputs")
	}
	if err := core.Err(); err != nil {
		log.Fatal().Err(err).Msg("face stopped")
	}
}

// openDrivers builds the requested outputs, falling back to the sim driver
// when hardware is missing. quit is closed when an interactive output asks
// to exit; it is nil otherwise.
func openDrivers(s config.Settings) ([]driver.Driver, <-chan struct{}) {
	var out []driver.Driver
	var quit <-chan struct{}
	for _, name := range strings.Split(s.Driver, ",") {
		switch name = strings.TrimSpace(name); name {
		case "sim", "":
			out = append(out, &fake.Driver{})

		case "panel":
			p, err := panel.Open(s.Panel)
			if err != nil {
				log.Warn().Err(err).Str("driver", name).Str("bus", s.Panel.Bus).Msg("panel init failed; falling back to SIM")
				out = append(out, &fake.Driver{})
				continue
			}
			out = append(out, p)

		case "ring":
			r, err := ring.Open(s.Ring)
			if err != nil {
				log.Warn().Err(err).Str("driver", name).Str("port", s.Ring.Port).Msg("ring init failed; falling back to SIM")
				out = append(out, &fake.Driver{})
				continue
			}
			out = append(out, r)

		case "term":
			p, err := term.New()
			if err != nil {
				log.Warn().Err(err).Str("driver", name).Msg("no terminal; falling back to SIM")
				out = append(out, &fake.Driver{})
				continue
			}
			quit = p.Done()
			out = append(out, p)

		default:
			log.Warn().Str("driver", name).Msg("unknown driver; using SIM")
			out = append(out, &fake.Driver{})
		}
	}
	if s.Snapshot != "" {
		sd, err := snapshot.New(s.Snapshot, 0)
		if err != nil {
			log.Warn().Err(err).Str("path", s.Snapshot).Msg("snapshot disabled")
		} else {
			out = append(out, sd)
		}
	}
	return out, quit
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
