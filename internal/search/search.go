// Package search aggregates job listings from multiple provider APIs. Each
// provider maps its own response shape onto types.Listing; the aggregator
// fans out concurrently and merges the results deterministically.
package search

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout for provider calls.
const DefaultTimeout = 30 * time.Second

// RecencyWindow bounds how old a listing may be before it is dropped.
const RecencyWindow = 3 * 24 * time.Hour

// Query describes one job search.
type Query struct {
	Keywords string
	Location string
	Limit    int
}

// Error represents a failure talking to one provider.
type Error struct {
	Provider string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search error from %s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("search error from %s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// recentEnough reports whether a listing's update timestamp falls within the
// recency window. Timestamps that are missing or unparseable keep the listing:
// dropping a live posting is worse than showing a stale one.
func recentEnough(updated string, now time.Time) bool {
	if updated == "" {
		return true
	}
	ts, err := parseUpdated(updated)
	if err != nil {
		return true
	}
	return now.Sub(ts) <= RecencyWindow
}

// parseUpdated handles the date shapes the boards actually emit: full ISO
// timestamps with optional fractional seconds or Z suffix, and bare dates.
func parseUpdated(s string) (time.Time, error) {
	s = strings.TrimSuffix(s, "Z")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if strings.ContainsRune(s, 'T') {
		return time.Parse("2006-01-02T15:04:05", s)
	}
	return time.Parse("2006-01-02", s)
}
