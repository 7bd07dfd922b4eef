package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/chandan/job-agent/internal/types"
)

// GoogleSearch scrapes LinkedIn postings through the Google Custom Search
// API. It is a best-effort secondary provider: result titles follow the
// "Job Title | Company | LinkedIn" convention and are split accordingly.
type GoogleSearch struct {
	APIKey string
	CX     string
	Now    func() time.Time

	// newService is swapped in tests to avoid real API construction.
	newService func(ctx context.Context) (*customsearch.Service, error)
}

func NewGoogleSearch(apiKey, cx string) *GoogleSearch {
	g := &GoogleSearch{APIKey: apiKey, CX: cx, Now: time.Now}
	g.newService = func(ctx context.Context) (*customsearch.Service, error) {
		return customsearch.NewService(ctx, option.WithAPIKey(g.APIKey))
	}
	return g
}

func (g *GoogleSearch) Name() string { return "LinkedIn (Google)" }

// buildQuery restricts results to LinkedIn job pages posted recently.
func (g *GoogleSearch) buildQuery(q Query) string {
	location := q.Location
	if location == "" {
		location = "Remote"
	}
	return fmt.Sprintf(`site:linkedin.com/jobs/view %q %q "1 day ago"`, q.Keywords, location)
}

func (g *GoogleSearch) Search(ctx context.Context, q Query) ([]types.Listing, error) {
	if g.APIKey == "" || g.CX == "" {
		return nil, &Error{Provider: g.Name(), Message: "API key or CX not configured"}
	}

	svc, err := g.newService(ctx)
	if err != nil {
		return nil, &Error{Provider: g.Name(), Message: "failed to create service", Cause: err}
	}

	limit := q.Limit
	if limit <= 0 || limit > 10 {
		limit = 5
	}

	resp, err := svc.Cse.List().
		Q(g.buildQuery(q)).
		Cx(g.CX).
		Num(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &Error{Provider: g.Name(), Message: "search request failed", Cause: err}
	}

	now := g.Now()
	listings := make([]types.Listing, 0, len(resp.Items))
	for _, item := range resp.Items {
		title, company := splitLinkedInTitle(item.Title)
		location := q.Location
		if location == "" {
			location = "Remote"
		}
		listings = append(listings, types.Listing{
			Title:       title,
			Company:     company,
			Location:    location,
			Salary:      "Check listing",
			Snippet:     item.Snippet,
			URL:         item.Link,
			Source:      g.Name(),
			RetrievedAt: now,
		})
	}
	return listings, nil
}

// splitLinkedInTitle parses "Job Title | Company | LinkedIn" result titles.
func splitLinkedInTitle(raw string) (title, company string) {
	parts := strings.Split(raw, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	title = "Unknown Job"
	company = "Unknown Company"
	if len(parts) > 0 && parts[0] != "" {
		title = parts[0]
	}
	if len(parts) > 1 && parts[1] != "" {
		company = parts[1]
	}
	return title, company
}
