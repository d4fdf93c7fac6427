// Package model defines the domain types used across the application.
package model

import (
	"sort"
	"strings"
	"time"
)

// Subscription is the single owner record: who gets notified, what they
// watch for, and which article links have already been delivered.
type Subscription struct {
	OwnerID      int64
	Keywords     []string
	MonitoringOn bool
	History      map[string]struct{}
}

// NewSubscription returns an empty subscription with no owner,
// no keywords, and monitoring disabled.
func NewSubscription() Subscription {
	return Subscription{History: make(map[string]struct{})}
}

// HasOwner reports whether an owner has claimed the subscription.
func (s *Subscription) HasOwner() bool {
	return s.OwnerID != 0
}

// Seen reports whether a link has already been notified.
func (s *Subscription) Seen(link string) bool {
	_, ok := s.History[link]
	return ok
}

// MarkSeen records a link as notified. History only ever grows.
func (s *Subscription) MarkSeen(link string) {
	if s.History == nil {
		s.History = make(map[string]struct{})
	}
	s.History[link] = struct{}{}
}

// AddKeywords merges the given words into the keyword set,
// case-insensitively, and returns how many were actually new.
// The keyword list stays sorted for stable persistence.
func (s *Subscription) AddKeywords(words []string) int {
	existing := make(map[string]struct{}, len(s.Keywords))
	for _, k := range s.Keywords {
		existing[strings.ToLower(k)] = struct{}{}
	}

	added := 0
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		key := strings.ToLower(w)
		if _, ok := existing[key]; ok {
			continue
		}
		existing[key] = struct{}{}
		s.Keywords = append(s.Keywords, w)
		added++
	}
	SortKeywords(s.Keywords)
	return added
}

// RemoveKeywords deletes the given words from the keyword set,
// case-insensitively, and returns how many were actually removed.
func (s *Subscription) RemoveKeywords(words []string) int {
	drop := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w != "" {
			drop[strings.ToLower(w)] = struct{}{}
		}
	}

	kept := s.Keywords[:0]
	removed := 0
	for _, k := range s.Keywords {
		if _, ok := drop[strings.ToLower(k)]; ok {
			removed++
			continue
		}
		kept = append(kept, k)
	}
	s.Keywords = kept
	return removed
}

// SortKeywords orders keywords case-insensitively in place.
func SortKeywords(keywords []string) {
	sort.Slice(keywords, func(i, j int) bool {
		return strings.ToLower(keywords[i]) < strings.ToLower(keywords[j])
	})
}

// Article is an immutable fetched fact from the news feed.
// PublishedAt is nil when the feed carried no parsable date.
type Article struct {
	Title           string
	Link            string
	SourceName      string
	PublishedAt     *time.Time
	MatchedKeywords []string
}
