package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"farofino/internal/backup"
	"farofino/internal/model"
	"farofino/internal/scheduler"
)

// maxBackupSize caps how much of an uploaded restore document is read.
const maxBackupSize = 1 * 1024 * 1024

func (b *Bot) handleStart(ctx context.Context, userID, chatID int64) {
	claimed := false
	sub, err := b.subs.Update(ctx, func(cur *model.Subscription) error {
		if !cur.HasOwner() {
			cur.OwnerID = userID
			claimed = true
		}
		return nil
	})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	switch {
	case claimed:
		b.reply(chatID, `Welcome! You are now the owner of this monitor.

Quick start:
1. /add <keyword[, keyword...]> — words to watch for
2. /monitor — turn monitoring on
3. /check — search right now

Use /help for the full command reference.`)
	case sub.OwnerID == userID:
		b.reply(chatID, "Welcome back!")
	default:
		b.reply(chatID, "This monitor already has an owner.")
	}
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Keyword management:
/add <kw[, kw...]> — add keywords (shortcut: @kw, kw)
/remove <kw[, kw...]> — remove keywords (shortcut: #kw, kw)
/keywords — show tracked keywords

Monitoring:
/monitor — toggle automatic monitoring on/off
/check — run a check right now
/status — show monitor status

Backup:
/backup — receive a keyword backup document
Send a backup .json document back to restore it.`)
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, args string) {
	words := ParseKeywordList(args)
	if len(words) == 0 {
		b.reply(chatID, "Usage: /add <keyword[, keyword...]>")
		return
	}

	added := 0
	sub, err := b.subs.Update(ctx, func(cur *model.Subscription) error {
		added = cur.AddKeywords(words)
		return nil
	})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	b.reply(chatID, fmt.Sprintf("✅ Added %d keyword(s). Now tracking %d.", added, len(sub.Keywords)))
	if added > 0 {
		b.handleBackup(ctx, chatID, "Automatic backup after keyword change.")
	}
}

func (b *Bot) handleRemove(ctx context.Context, chatID int64, args string) {
	words := ParseKeywordList(args)
	if len(words) == 0 {
		b.reply(chatID, "Usage: /remove <keyword[, keyword...]>")
		return
	}

	removed := 0
	sub, err := b.subs.Update(ctx, func(cur *model.Subscription) error {
		removed = cur.RemoveKeywords(words)
		return nil
	})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	b.reply(chatID, fmt.Sprintf("🗑 Removed %d keyword(s). Now tracking %d.", removed, len(sub.Keywords)))
	if removed > 0 {
		b.handleBackup(ctx, chatID, "Automatic backup after keyword change.")
	}
}

func (b *Bot) handleKeywords(ctx context.Context, chatID int64) {
	sub, err := b.subs.Get(ctx)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatKeywordList(sub.Keywords))
}

func (b *Bot) handleMonitor(ctx context.Context, chatID int64) {
	sub, err := b.subs.Update(ctx, func(cur *model.Subscription) error {
		cur.MonitoringOn = !cur.MonitoringOn
		return nil
	})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	if sub.MonitoringOn {
		b.reply(chatID, "Monitoring is now ON.")
	} else {
		b.reply(chatID, "Monitoring is now OFF.")
	}
}

func (b *Bot) handleCheck(ctx context.Context, chatID int64) {
	sub, err := b.subs.Get(ctx)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if len(sub.Keywords) == 0 {
		b.reply(chatID, "No keywords configured. Use /add before checking.")
		return
	}

	b.reply(chatID, "Starting manual check...")
	count, err := b.checker.ManualCheck(ctx)
	if errors.Is(err, scheduler.ErrCycleRunning) {
		b.reply(chatID, "A check is already in progress.")
		return
	}
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Check failed: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Manual check finished. %d new article(s).", count))
}

func (b *Bot) handleStatus(ctx context.Context, chatID int64) {
	sub, err := b.subs.Get(ctx)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatStatus(sub, b.cfg.CheckInterval))
}

func (b *Bot) handleBackup(ctx context.Context, chatID int64, caption string) {
	sub, err := b.subs.Get(ctx)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	data, err := backup.Snapshot(sub)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Backup failed: %v", err))
		return
	}
	if err := b.SendDocument(chatID, data, backup.Filename, caption); err != nil {
		b.log.Error("send backup", "error", err)
		b.reply(chatID, "Backup failed: could not send the document.")
	}
}

// handleDocument treats a JSON document uploaded by the owner as a
// restore request. Anything else is ignored.
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isOwner(ctx, msg) {
		return
	}
	chatID := msg.Chat.ID
	if !strings.HasSuffix(strings.ToLower(msg.Document.FileName), ".json") {
		b.reply(chatID, "To restore, send a backup .json document.")
		return
	}

	data, err := b.downloadDocument(ctx, msg.Document.FileID)
	if err != nil {
		b.log.Error("download document", "error", err)
		b.reply(chatID, "Restore failed: could not download the document.")
		return
	}

	var sub model.Subscription
	sub, err = b.subs.Update(ctx, func(cur *model.Subscription) error {
		restored, rerr := backup.Restore(data, *cur)
		if rerr != nil {
			return rerr
		}
		*cur = restored
		return nil
	})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Restore failed: %v", err))
		return
	}

	state := "OFF"
	if sub.MonitoringOn {
		state = "ON"
	}
	b.reply(chatID, fmt.Sprintf("Restore complete: %d keyword(s), monitoring %s.", len(sub.Keywords), state))
}

func (b *Bot) downloadDocument(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBackupSize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}
