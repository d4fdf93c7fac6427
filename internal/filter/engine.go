// Package filter implements the article eligibility engine.
package filter

import (
	"strings"
	"time"

	"farofino/internal/model"
)

// Select returns the candidates that are new, recent, and
// keyword-matching, in input order, each tagged with the keywords that
// matched. It is a pure function: history is read but never mutated,
// and the caller owns persisting the selected links.
//
// A candidate is eligible iff its link has not been seen, its publish
// time is within the window (an absent date passes: a feed parsing
// anomaly must not suppress a genuine match), and at least one keyword
// matches. Duplicate links inside one batch are selected once, because
// the working history grows as the batch is evaluated.
func Select(candidates []model.Article, history map[string]struct{}, keywords []string, window time.Duration, now time.Time) []model.Article {
	if len(keywords) == 0 {
		return nil
	}

	working := make(map[string]struct{}, len(history))
	for link := range history {
		working[link] = struct{}{}
	}
	cutoff := now.Add(-window)

	var selected []model.Article
	for _, a := range candidates {
		if _, seen := working[a.Link]; seen {
			continue
		}
		if a.PublishedAt != nil && a.PublishedAt.Before(cutoff) {
			continue
		}
		matched := MatchKeywords(a.Title, a.SourceName, keywords)
		if len(matched) == 0 {
			continue
		}
		a.MatchedKeywords = matched
		selected = append(selected, a)
		working[a.Link] = struct{}{}
	}
	return selected
}

// MatchKeywords returns the keywords whose lowercased text appears in
// the lowercased "title source" text. Exact substring semantics, no
// tokenization.
func MatchKeywords(title, sourceName string, keywords []string) []string {
	text := strings.ToLower(title + " " + sourceName)
	var matched []string
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(k)) {
			matched = append(matched, k)
		}
	}
	return matched
}
