package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// openStore picks the persistence backend: Postgres when DATABASE_URL is
// set, SQLite when SQLITE_PATH is set, otherwise JSON documents in the
// data directory.
func openStore(cfg Config) (Store, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		slog.Info("store: PostgreSQL")
		return NewPostgresStore(dsn)
	}
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		slog.Info("store: SQLite", "path", path)
		return NewSQLiteStore(path)
	}
	slog.Info("store: JSON files", "dir", cfg.DataDir)
	return NewJSONStore(cfg.DataDir)
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	// Optional .env for local runs; real deployments set the environment.
	if err := godotenv.Load(); err == nil {
		slog.Info(".env loaded")
	}

	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}
	if len(cfg.Channels) == 0 {
		slog.Warn("no REQUIRED_CHANNELS set, membership gate disabled")
	}

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("store error", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		slog.Error("bot error", "err", err)
		os.Exit(1)
	}
	slog.Info("bot started", "username", api.Self.UserName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down...")
		cancel()
	}()

	bot := NewBot(cfg, api, NewCache(store))
	bot.Run(ctx)
	slog.Info("bot stopped")
}
