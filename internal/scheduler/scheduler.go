// Package scheduler drives the fetch-filter-notify-persist cycle.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"farofino/internal/fetcher"
	"farofino/internal/filter"
	"farofino/internal/model"
	"farofino/internal/notify"
	"farofino/internal/subscription"
)

// ErrCycleRunning is returned when a manual check collides with a
// cycle that is already in flight.
var ErrCycleRunning = errors.New("a check cycle is already running")

// Scheduler runs monitoring cycles on a fixed interval and on demand.
// Exactly one cycle runs at a time; a tick that arrives while a cycle
// is active is dropped, not queued.
type Scheduler struct {
	subs       *subscription.Manager
	fetcher    *fetcher.Fetcher
	dispatcher *notify.Dispatcher
	sender     notify.Sender
	log        *slog.Logger
	tick       time.Duration
	window     time.Duration
	cycling    atomic.Bool
}

// New creates a Scheduler with the default 5-minute interval and
// 3-day relevance window.
func New(subs *subscription.Manager, f *fetcher.Fetcher, d *notify.Dispatcher, sender notify.Sender, log *slog.Logger) *Scheduler {
	return &Scheduler{
		subs:       subs,
		fetcher:    f,
		dispatcher: d,
		sender:     sender,
		log:        log,
		tick:       5 * time.Minute,
		window:     3 * 24 * time.Hour,
	}
}

// SetTickInterval overrides the default check interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// SetRelevanceWindow overrides the default maximum article age.
func (s *Scheduler) SetRelevanceWindow(d time.Duration) {
	s.window = d
}

// Run starts the scheduler loop, blocking until ctx is cancelled.
// Cycle failures are contained at the cycle boundary: the clock always
// waits the normal interval before the next attempt.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.autoCycle(ctx)
		}
	}
}

// ManualCheck runs one cycle on demand. It bypasses the monitoring
// toggle but still short-circuits when no owner or no keywords are
// configured. The call site reports completion; no automatic summary
// is sent.
func (s *Scheduler) ManualCheck(ctx context.Context) (int, error) {
	if !s.cycling.CompareAndSwap(false, true) {
		return 0, ErrCycleRunning
	}
	defer s.cycling.Store(false)

	sub, err := s.subs.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("load subscription: %w", err)
	}
	if !sub.HasOwner() || len(sub.Keywords) == 0 {
		return 0, nil
	}
	return s.cycle(ctx, sub)
}

// autoCycle handles one tick. Monitoring off means nothing happens at
// all; monitoring on with nothing to search for nudges the owner.
func (s *Scheduler) autoCycle(ctx context.Context) {
	if !s.cycling.CompareAndSwap(false, true) {
		s.log.Warn("tick dropped, cycle still running")
		return
	}
	defer s.cycling.Store(false)

	sub, err := s.subs.Get(ctx)
	if err != nil {
		s.log.Error("load subscription", "error", err)
		return
	}
	if !sub.MonitoringOn {
		return
	}
	if !sub.HasOwner() {
		return
	}
	if len(sub.Keywords) == 0 {
		s.notifyOwner(sub.OwnerID, "[Auto] Check skipped. Add keywords to start monitoring.")
		return
	}

	count, err := s.cycle(ctx, sub)
	if err != nil {
		s.log.Error("cycle failed", "error", err)
		count = 0
	}
	s.notifyOwner(sub.OwnerID, fmt.Sprintf("[Auto] Check finished. %d new article(s).", count))
}

// cycle runs one fetch-filter-notify-persist pass and returns the
// number of new articles selected.
func (s *Scheduler) cycle(ctx context.Context, sub model.Subscription) (int, error) {
	candidates, err := s.fetcher.Fetch(ctx, sub.Keywords)
	if err != nil {
		// Fetch failures degrade to an empty batch; the clock keeps going.
		s.log.Error("fetch news", "error", err)
		candidates = nil
	}

	selected := filter.Select(candidates, sub.History, sub.Keywords, s.window, time.Now())
	if len(selected) == 0 {
		return 0, nil
	}

	delivered := s.dispatcher.Deliver(ctx, sub.OwnerID, selected)
	if delivered < len(selected) {
		s.log.Warn("partial delivery", "delivered", delivered, "selected", len(selected))
	}

	// Every selected link is marked seen, delivered or not: notify once
	// or not at all.
	_, err = s.subs.Update(ctx, func(cur *model.Subscription) error {
		for _, a := range selected {
			cur.MarkSeen(a.Link)
		}
		return nil
	})
	if err != nil {
		return len(selected), fmt.Errorf("persist history: %w", err)
	}

	s.log.Info("cycle complete", "candidates", len(candidates), "selected", len(selected), "delivered", delivered)
	return len(selected), nil
}

func (s *Scheduler) notifyOwner(ownerID int64, text string) {
	if err := s.sender.SendMessage(ownerID, text); err != nil {
		s.log.Error("send cycle notice", "error", err)
	}
}
