// Package notify delivers filtered articles to the subscriber.
package notify

import (
	"context"
	"log/slog"
	"time"

	"farofino/internal/model"
)

// Sender is the transport primitive used for outbound messages.
type Sender interface {
	SendMessage(chatID int64, text string) error
	SendDocument(chatID int64, data []byte, filename, caption string) error
}

// Dispatcher sends articles one at a time with inter-message pacing.
type Dispatcher struct {
	sender Sender
	log    *slog.Logger
	pause  time.Duration
}

// NewDispatcher creates a Dispatcher with the default 1-second pacing
// gap between consecutive sends.
func NewDispatcher(sender Sender, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		log:    log,
		pause:  1 * time.Second,
	}
}

// SetPause overrides the pacing gap (useful for testing).
func (d *Dispatcher) SetPause(p time.Duration) {
	d.pause = p
}

// Deliver sends the articles strictly sequentially, preserving input
// order, and returns how many were actually delivered. A failed send
// is logged and does not abort the rest of the batch; the caller marks
// every link seen regardless, so a failed article is never retried.
func (d *Dispatcher) Deliver(ctx context.Context, chatID int64, articles []model.Article) int {
	delivered := 0
	for i, a := range articles {
		if i > 0 {
			select {
			case <-ctx.Done():
				d.log.Warn("delivery interrupted", "delivered", delivered, "total", len(articles))
				return delivered
			case <-time.After(d.pause):
			}
		}
		if err := d.sender.SendMessage(chatID, FormatArticle(a)); err != nil {
			d.log.Error("send article", "link", a.Link, "error", err)
			continue
		}
		delivered++
	}
	return delivered
}
