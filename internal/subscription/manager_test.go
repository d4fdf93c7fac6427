package subscription

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"farofino/internal/model"
	"farofino/internal/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewManager(store)
}

func TestUpdatePersists(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.Update(ctx, func(s *model.Subscription) error {
		s.OwnerID = 42
		s.AddKeywords([]string{"chuva"})
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(int64(42), got.OwnerID); diff != "" {
		t.Errorf("owner mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"chuva"}, got.Keywords); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateErrorAbortsSave(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	wantErr := fmt.Errorf("mutation rejected")
	_, err := m.Update(ctx, func(s *model.Subscription) error {
		s.OwnerID = 99
		return wantErr
	})
	if err == nil || err.Error() != wantErr.Error() {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}

	got, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.HasOwner() {
		t.Errorf("aborted mutation leaked to storage: owner %d", got.OwnerID)
	}
}

func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Update(ctx, func(s *model.Subscription) error {
				s.AddKeywords([]string{fmt.Sprintf("kw%02d", i)})
				s.MarkSeen(fmt.Sprintf("https://example.com/%02d", i))
				return nil
			})
			if err != nil {
				t.Errorf("update %d: %v", i, err)
			}
		}()
	}
	wg.Wait()

	got, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(writers, len(got.Keywords)); diff != "" {
		t.Errorf("keyword count mismatch, writes were lost (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(writers, len(got.History)); diff != "" {
		t.Errorf("history count mismatch, writes were lost (-want +got):\n%s", diff)
	}
}
