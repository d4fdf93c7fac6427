package bot

import (
	"fmt"
	"strings"
	"time"

	"farofino/internal/model"
)

// FormatKeywordList formats the tracked keywords for display.
func FormatKeywordList(keywords []string) string {
	if len(keywords) == 0 {
		return "No keywords yet. Use /add <keyword> to start."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Tracking %d keyword(s):\n", len(keywords))
	for _, k := range keywords {
		fmt.Fprintf(&b, "• %s\n", k)
	}
	return b.String()
}

// FormatStatus formats the monitor status summary.
func FormatStatus(sub model.Subscription, interval time.Duration) string {
	state := "OFF"
	if sub.MonitoringOn {
		state = "ON"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Monitoring: %s\n", state)
	fmt.Fprintf(&b, "Check interval: every %s\n", interval)
	fmt.Fprintf(&b, "Keywords: %d\n", len(sub.Keywords))
	fmt.Fprintf(&b, "Articles notified so far: %d", len(sub.History))
	return b.String()
}
