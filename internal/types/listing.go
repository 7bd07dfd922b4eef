// Package types defines the shared domain types for the job agent.
package types

import (
	"strings"
	"time"
)

// Listing is a single job posting retrieved from an external provider.
// A listing is immutable once fetched; it lives for one user session
// unless exported to the spreadsheet.
type Listing struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Salary   string `json:"salary,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
	URL      string `json:"url"`
	Source   string `json:"source"`

	// Updated is the provider's raw timestamp for the posting. Formats vary
	// per board and some boards omit it, so it stays a string and is parsed
	// only where recency matters.
	Updated     string    `json:"updated,omitempty"`
	RetrievedAt time.Time `json:"retrieved_at"`

	// ProviderRank is the configuration index of the provider that returned
	// this listing. Duplicate retention keeps the lowest rank, which makes the
	// merged set independent of fan-out completion order.
	ProviderRank int `json:"-"`
}

// DedupeKey returns the normalized (title, company) key used for
// cross-provider deduplication of cross-posted listings.
func (l Listing) DedupeKey() string {
	norm := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	return norm(l.Title) + "\x00" + norm(l.Company)
}

// Description assembles the text block handed to the customization step.
func (l Listing) Description() string {
	var sb strings.Builder
	sb.WriteString("Title: " + l.Title + "\n")
	sb.WriteString("Company: " + l.Company + "\n")
	sb.WriteString("Location: " + l.Location + "\n")
	if l.Salary != "" {
		sb.WriteString("Salary: " + l.Salary + "\n")
	}
	sb.WriteString("Description: " + l.Snippet + "\n")
	return sb.String()
}
