package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"farofino/internal/bot"
	"farofino/internal/config"
	"farofino/internal/fetcher"
	"farofino/internal/notify"
	"farofino/internal/scheduler"
	"farofino/internal/storage"
	"farofino/internal/subscription"
)

func main() {
	// Best effort: a missing .env just means the environment is
	// already set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	subs := subscription.NewManager(store)

	b, err := bot.New(cfg.TelegramBotToken, subs, cfg, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	f := fetcher.New(http.DefaultClient, fetcher.Options{
		Lang:    cfg.FeedLang,
		Country: cfg.FeedCountry,
		Ceid:    cfg.FeedCeid,
	})
	dispatcher := notify.NewDispatcher(b, log)

	sched := scheduler.New(subs, f, dispatcher, b, log)
	sched.SetTickInterval(cfg.CheckInterval)
	sched.SetRelevanceWindow(cfg.RelevanceWindow)
	b.SetChecker(sched)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting monitor", "interval", cfg.CheckInterval, "window", cfg.RelevanceWindow)

	go sched.Run(ctx)

	b.Run(ctx)

	log.Info("monitor stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
