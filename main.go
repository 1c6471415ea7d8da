// Command memerelay is the Telegram link relay bot.
// It:
//   - Loads configuration and initializes structured logging.
//   - Builds one extraction adapter per enabled platform.
//   - Long-polls Telegram, re-posting the content behind recognized links and
//     deleting the original message once delivery succeeds.
//   - Exposes a minimal HTTP server with /healthz, /readyz, and /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/onnwee/memerelay/app"
	"github.com/onnwee/memerelay/config"
	"github.com/onnwee/memerelay/delivery"
	"github.com/onnwee/memerelay/links"
	"github.com/onnwee/memerelay/pipeline"
	"github.com/onnwee/memerelay/server"
	"github.com/onnwee/memerelay/telegram"
	"github.com/onnwee/memerelay/telemetry"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	setupLogging()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config invalid", slog.Any("err", err))
		os.Exit(1)
	}

	telemetry.Init()

	// Initialize OpenTelemetry tracing (optional; requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdown, err := telemetry.InitTracing("memerelay", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()

	logger := slog.Default()
	comps, err := app.Build(cfg, logger)
	if err != nil {
		slog.Error("build adapters", slog.Any("err", err))
		os.Exit(1)
	}
	if err := comps.Remux.Available(); err != nil {
		slog.Warn("ffmpeg not found, reddit videos will be sent as links", slog.String("bin", cfg.FFmpegBin), slog.Any("err", err))
	}

	bot, err := telegram.New(cfg.TelegramToken, comps.Fetch, comps.Scratch, telegram.Options{
		Timeout: cfg.MediaTimeout,
		Logger:  logger,
	})
	if err != nil {
		slog.Error("telegram init failed", slog.Any("err", err))
		os.Exit(1)
	}

	engine := delivery.New(bot, delivery.Options{Logger: logger})
	p := pipeline.New(links.NewClassifier(cfg.EnabledKinds()...), comps.Registry, engine, bot, pipeline.Options{
		MaxJobs: cfg.MaxConcurrentJobs,
		Logger:  logger,
	})

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := server.NewMux(
		server.Check{Name: "scratch_dir", Fn: func(context.Context) error { return comps.Scratch.Writable() }},
		server.Check{Name: "ffmpeg", Fn: func(context.Context) error { return comps.Remux.Available() }},
		server.Check{Name: "telegram", Fn: bot.Ping},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx, cfg.HTTPAddr, mux)
	})
	g.Go(func() error {
		slog.Info("relay started", slog.String("bot", bot.Username()), slog.Int("max_jobs", cfg.MaxConcurrentJobs))
		err := p.Serve(gctx, bot.Messages(gctx))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("relay stopped with error", slog.Any("err", err))
		shutdown()
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

// setupLogging configures the default logger from LOG_LEVEL and LOG_FORMAT.
// Defaults: level=info, format=text.
func setupLogging() {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		// unknown level -> keep info but note once using temporary logger
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT")) // text | json
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", slog.String("level", lvl.String()), slog.String("format", map[bool]string{true: "json", false: "text"}[format == "json"]))
}
