package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	audiobook "github.com/akshat6745/audiobook-fullstack"
	"github.com/akshat6745/audiobook-fullstack/config"
	"github.com/akshat6745/audiobook-fullstack/fetch"
	"github.com/akshat6745/audiobook-fullstack/identity"
	"github.com/akshat6745/audiobook-fullstack/library"
	"github.com/akshat6745/audiobook-fullstack/metrics"
	"github.com/akshat6745/audiobook-fullstack/novel"
	"github.com/akshat6745/audiobook-fullstack/tts"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	m := metrics.New()

	// The fetch pool is the only process-wide state: created once here,
	// shared by every concurrent call, closed once at shutdown.
	fetcher := fetch.New(identity.NewRotator(), cfg.Scrape.Timeout.Std(), m, log)
	defer fetcher.Close()

	server := audiobook.NewAPIServer(
		library.New(fetcher, cfg.NovelsExportURL()),
		novel.New(fetcher, cfg.Scrape, m, log),
		tts.New(cfg.TTS.Endpoint, cfg.TTS.DefaultVoice),
		cfg.CORS,
		m.Handler(),
		log,
	)

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting novel reader API", slog.String("addr", cfg.Addr()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", slog.Any("error", err))
	}
	log.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
