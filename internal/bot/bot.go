// Package bot implements the Telegram command surface.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"farofino/internal/config"
	"farofino/internal/subscription"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	GetFileDirectURL(fileID string) (string, error)
}

// Checker triggers an on-demand monitoring cycle.
type Checker interface {
	ManualCheck(ctx context.Context) (int, error)
}

// HTTPClient is the interface for downloading uploaded documents.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Bot handles owner commands and delivers outbound messages.
type Bot struct {
	api     telegramAPI
	subs    *subscription.Manager
	checker Checker
	client  HTTPClient
	cfg     *config.Config
	log     *slog.Logger
}

// New creates a Bot with the given Telegram token.
func New(token string, subs *subscription.Manager, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:    api,
		subs:   subs,
		client: http.DefaultClient,
		cfg:    cfg,
		log:    log,
	}, nil
}

// SetChecker wires the scheduler in after construction; the scheduler
// needs the bot as its sender, so the two cannot be built in one shot.
func (b *Bot) SetChecker(c Checker) {
	b.checker = c
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// SendMessage sends a Markdown text message with link previews off.
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendDocument uploads a document with the given filename and caption.
func (b *Bot) SendDocument(chatID int64, data []byte, filename, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

func (b *Bot) reply(chatID int64, text string) {
	if err := b.SendMessage(chatID, text); err != nil {
		b.log.Error("reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	if msg.Document != nil {
		b.handleDocument(ctx, msg)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// @word,word adds keywords, #word,word removes them. Kept as a
	// faster alternative to /add and /remove.
	text := strings.TrimSpace(msg.Text)
	switch {
	case strings.HasPrefix(text, "@"):
		if !b.isOwner(ctx, msg) {
			return
		}
		b.handleAdd(ctx, msg.Chat.ID, text[1:])
	case strings.HasPrefix(text, "#"):
		if !b.isOwner(ctx, msg) {
			return
		}
		b.handleRemove(ctx, msg.Chat.ID, text[1:])
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	if cmd == "start" {
		b.handleStart(ctx, msg.From.ID, chatID)
		return
	}
	if cmd == "help" {
		b.handleHelp(chatID)
		return
	}

	if !b.isOwner(ctx, msg) {
		b.reply(chatID, "Access denied. This bot serves a single owner.")
		return
	}

	switch cmd {
	case "add":
		b.handleAdd(ctx, chatID, args)
	case "remove":
		b.handleRemove(ctx, chatID, args)
	case "keywords":
		b.handleKeywords(ctx, chatID)
	case "monitor":
		b.handleMonitor(ctx, chatID)
	case "check":
		b.handleCheck(ctx, chatID)
	case "status":
		b.handleStatus(ctx, chatID)
	case "backup":
		b.handleBackup(ctx, chatID, "Here is your keyword backup.")
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}

// isOwner reports whether the sender is the registered owner. The
// failure mode is closed: if the subscription cannot be loaded, nobody
// is the owner.
func (b *Bot) isOwner(ctx context.Context, msg *tgbotapi.Message) bool {
	sub, err := b.subs.Get(ctx)
	if err != nil {
		b.log.Error("load subscription", "error", err)
		return false
	}
	return sub.HasOwner() && sub.OwnerID == msg.From.ID
}
