package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/aqmatrix/frames"
	"github.com/coreman2200/aqmatrix/internal/config"
	"github.com/coreman2200/aqmatrix/internal/layout"
	"github.com/coreman2200/aqmatrix/internal/led"
	"github.com/coreman2200/aqmatrix/internal/monitor"
	"github.com/coreman2200/aqmatrix/internal/ws"
)

func main() {
	// ---- Flags (defaults; config.yaml and AQM_* env override) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		envPath    = flag.String("env", ".env", "path to an optional .env file")
		driver     = flag.String("driver", "sim", "driver: spi | sim")
		source     = flag.String("source", "demo", "source: demo | fixed | push")
		category   = flag.String("category", "unknown", "category shown by -source fixed")
		interval   = flag.Duration("interval", monitor.DefaultInterval, "refresh interval")
		brightness = flag.Float64("brightness", 0.5, "brightness 0..1")
		colorHex   = flag.String("color", "#FFFFFF", "lit pixel color")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Config: flags < config.yaml < env ----
	cfg := config.Default()
	cfg.Driver, cfg.Source, cfg.Category = *driver, *source, *category
	cfg.IntervalMs = int(interval.Milliseconds())
	cfg.Brightness, cfg.Color, cfg.Addr = *brightness, *colorHex, *addr

	if err := config.Overlay(*configPath, cfg); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	}
	if err := config.LoadEnvFile(*envPath); err != nil {
		log.Warn().Err(err).Msg("env file ignored")
	}
	if err := config.ApplyEnv(cfg); err != nil {
		log.Warn().Err(err).Msg("some environment overrides ignored")
	}

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		zerolog.SetGlobalLevel(lvl)
	}

	on, err := led.ParseColor(cfg.Color)
	if err != nil {
		log.Warn().Err(err).Msg("bad color; using white")
		on, _ = led.ParseColor("#FFFFFF")
	}
	m := layout.Matrix{
		Rows:       cfg.Matrix.Rows,
		Cols:       cfg.Matrix.Cols,
		Serpentine: cfg.Matrix.Serpentine,
		FlipX:      cfg.Matrix.FlipX,
	}
	if m.Count() == 0 {
		m = layout.Default()
	}

	// ---- Driver selection: -sim-only overrides config ----
	selected := cfg.Driver
	if *simOnly {
		selected = "sim"
	}
	var drv led.Driver
	switch selected {
	case "spi":
		p, err := led.OpenSPI(led.SPIConfig{
			Dev:  cfg.SPI.Dev,
			Freq: physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz,
		}, m, on, cfg.Brightness)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", cfg.SPI.Dev).
				Msg("SPI init failed; falling back to SIM")
			drv, selected = led.NewSim(os.Stdout), "sim"
		} else {
			drv = p
		}
	case "sim":
		drv = led.NewSim(os.Stdout)
	default:
		log.Warn().Str("driver", selected).Msg("unknown driver; using SIM")
		drv, selected = led.NewSim(os.Stdout), "sim"
	}

	// ---- Source ----
	var (
		src  monitor.Source
		push *monitor.Push
	)
	switch cfg.Source {
	case "fixed":
		c, err := frames.ParseCategory(cfg.Category)
		if err != nil {
			log.Warn().Err(err).Msg("fixed source has no valid category; showing unknown")
			c = frames.Unknown
		}
		src = monitor.Fixed(c)
	case "push":
		push = monitor.NewPush()
		src = push
	default:
		src = monitor.NewCycle()
	}

	hub := ws.NewHub(push)
	mon := monitor.New(src, drv, time.Duration(cfg.IntervalMs)*time.Millisecond, hub)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      withCORS(hub.Routes()),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run monitor loop & server ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = mon.Run(ctx)
	}()
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("driver", selected).Str("source", cfg.Source).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	<-done
	if err := drv.Close(); err != nil {
		log.Warn().Err(err).Msg("driver close")
	}
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
