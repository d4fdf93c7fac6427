// Package backup snapshots and restores the keyword configuration as
// a portable JSON document.
package backup

import (
	"encoding/json"
	"fmt"

	"farofino/internal/model"
)

// Filename is the suggested name for backup documents.
const Filename = "farofino_backup.json"

// document is the portable backup shape. It carries keyword intent
// only: owner identity and notification history stay out so a restore
// on another deployment cannot leak either.
type document struct {
	Keywords     []string `json:"keywords"`
	MonitoringOn bool     `json:"monitoring_on"`
}

// Snapshot serializes the subscription's keywords and monitoring flag.
func Snapshot(sub model.Subscription) ([]byte, error) {
	doc := document{
		Keywords:     sub.Keywords,
		MonitoringOn: sub.MonitoringOn,
	}
	if doc.Keywords == nil {
		doc.Keywords = []string{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return data, nil
}

// Restore applies a backup document to the current subscription,
// replacing keywords and the monitoring flag while leaving the owner
// and history untouched. A malformed document returns an error and the
// result must be discarded.
func Restore(data []byte, current model.Subscription) (model.Subscription, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return current, fmt.Errorf("parse backup document: %w", err)
	}
	if doc.Keywords == nil {
		return current, fmt.Errorf("backup document has no keywords field")
	}

	restored := current
	restored.Keywords = nil
	restored.AddKeywords(doc.Keywords)
	restored.MonitoringOn = doc.MonitoringOn
	return restored, nil
}
