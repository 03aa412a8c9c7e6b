package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot ties the dependencies together: cache over the store, upload
// sessions, pending deliveries and the deletion scheduler.
type Bot struct {
	cfg       Config
	api       *tgbotapi.BotAPI
	cache     *Cache
	sessions  *Sessions
	pending   *PendingDeliveries
	scheduler *Scheduler
	whSecret  string // random-looking path segment for the webhook URL
}

func NewBot(cfg Config, api *tgbotapi.BotAPI, cache *Cache) *Bot {
	// Derive the webhook secret from the token (stable across restarts).
	h := sha256.Sum256([]byte(cfg.BotToken))
	secret := hex.EncodeToString(h[:8])

	b := &Bot{
		cfg:      cfg,
		api:      api,
		cache:    cache,
		sessions: NewSessions(),
		pending:  NewPendingDeliveries(),
		whSecret: secret,
	}
	b.scheduler = NewScheduler(cfg.DeleteDelay, func(chatID int64, messageID int) error {
		_, err := api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
		return err
	})
	return b
}

func (b *Bot) webhookPath() string {
	return "/webhook-" + b.whSecret
}

// registerCommands registers the bot commands in Telegram.
func (b *Bot) registerCommands() {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Get content by code"},
		tgbotapi.BotCommand{Command: "admin", Description: "Admin panel"},
		tgbotapi.BotCommand{Command: "finish_package", Description: "Finish the current package"},
	)
	if _, err := b.api.Request(cmds); err != nil {
		slog.Error("setMyCommands failed", "err", err)
	}
}

// Run starts the background flush+sweep cycle and the update listener, and
// blocks until ctx is cancelled. A final flush runs on the way out so a
// clean shutdown loses nothing.
func (b *Bot) Run(ctx context.Context) {
	b.registerCommands()

	go func() {
		t := time.NewTicker(b.cfg.FlushInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				b.cache.Flush()
				b.sessions.Sweep()
				b.pending.Sweep()
			}
		}
	}()

	if b.cfg.WebhookURL != "" {
		go func() {
			addr := ":" + b.cfg.WebhookPort
			srv := &http.Server{
				Addr:         addr,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 10 * time.Second,
				IdleTimeout:  60 * time.Second,
			}
			slog.Info("webhook server starting", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("webhook server failed", "err", err)
			}
		}()
	}

	b.listen(ctx)
	b.cache.Flush()
}

// listen consumes updates from either the webhook or long polling,
// depending on configuration.
func (b *Bot) listen(ctx context.Context) {
	var updates tgbotapi.UpdatesChannel

	if b.cfg.WebhookURL != "" {
		whPath := b.webhookPath()
		whURL := strings.TrimRight(b.cfg.WebhookURL, "/") + whPath
		wh, err := tgbotapi.NewWebhook(whURL)
		if err != nil {
			slog.Error("webhook config error", "err", err)
			return
		}
		if _, err := b.api.Request(wh); err != nil {
			slog.Error("set webhook failed", "err", err)
			return
		}
		updates = b.api.ListenForWebhook(whPath)
		slog.Info("webhook mode")
	} else {
		// Drop a stale webhook if one was set, then poll.
		b.api.Request(tgbotapi.DeleteWebhookConfig{})
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates = b.api.GetUpdatesChan(u)
		slog.Info("polling mode")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				slog.Warn("updates channel closed")
				return
			}
			b.handleUpdate(update)
		}
	}
}

// handleUpdate dispatches one update. A panic in a handler is converted to
// a generic failure message so the listener loop never dies.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("handler panic", "panic", r)
			if chatID := updateChatID(update); chatID != 0 {
				b.send(tgbotapi.NewMessage(chatID, "Something went wrong, please try again."))
			}
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

func updateChatID(update tgbotapi.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

// send is the log-and-forget send used for plain replies.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		slog.Error("send failed", "err", err)
	}
}
