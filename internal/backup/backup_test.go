package backup

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"farofino/internal/model"
)

func TestSnapshotShape(t *testing.T) {
	sub := model.Subscription{
		OwnerID:      42,
		Keywords:     []string{"chuva", "enchente"},
		MonitoringOn: true,
		History:      map[string]struct{}{"https://example.com/x": {}},
	}

	data, err := Snapshot(sub)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("snapshot is not valid json: %v", err)
	}

	want := map[string]any{
		"keywords":      []any{"chuva", "enchente"},
		"monitoring_on": true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot shape mismatch (-want +got):\n%s", diff)
	}

	// Identity and history must never leave the deployment.
	raw := string(data)
	for _, forbidden := range []string{"42", "history", "example.com"} {
		if strings.Contains(raw, forbidden) {
			t.Errorf("snapshot leaks %q:\n%s", forbidden, raw)
		}
	}
}

func TestSnapshotEmptySubscription(t *testing.T) {
	data, err := Snapshot(model.NewSubscription())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff([]any{}, got["keywords"]); diff != "" {
		t.Errorf("empty subscription should snapshot an empty keyword array (-want +got):\n%s", diff)
	}
}

func TestRestore(t *testing.T) {
	current := model.Subscription{
		OwnerID:      42,
		Keywords:     []string{"seca"},
		MonitoringOn: false,
		History:      map[string]struct{}{"X": {}},
	}

	doc := []byte(`{"keywords":["b","a"],"monitoring_on":true}`)
	got, err := Restore(doc, current)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if diff := cmp.Diff(int64(42), got.OwnerID); diff != "" {
		t.Errorf("owner must survive restore (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]struct{}{"X": {}}, got.History); diff != "" {
		t.Errorf("history must survive restore (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got.Keywords); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
	if !got.MonitoringOn {
		t.Error("monitoring flag not restored")
	}
}

func TestRestoreMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "definitely not json"},
		{name: "wrong shape", doc: `{"feeds":["x"]}`},
		{name: "keywords wrong type", doc: `{"keywords":"chuva","monitoring_on":true}`},
		{name: "empty object", doc: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := model.Subscription{
				OwnerID:  7,
				Keywords: []string{"seca"},
				History:  map[string]struct{}{"X": {}},
			}
			_, err := Restore([]byte(tt.doc), current)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			// The caller keeps using current on error; it must be intact.
			if diff := cmp.Diff([]string{"seca"}, current.Keywords); diff != "" {
				t.Errorf("current subscription mutated on failed restore (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	original := model.Subscription{
		OwnerID:      9,
		Keywords:     []string{"alagamento", "chuva"},
		MonitoringOn: true,
		History:      map[string]struct{}{"L": {}},
	}

	data, err := Snapshot(original)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	got, err := Restore(data, model.NewSubscription())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if diff := cmp.Diff(original.Keywords, got.Keywords); diff != "" {
		t.Errorf("keywords did not round-trip (-want +got):\n%s", diff)
	}
	if got.MonitoringOn != original.MonitoringOn {
		t.Error("monitoring flag did not round-trip")
	}
}
