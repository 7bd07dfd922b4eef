package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chandan/job-agent/internal/types"
)

// DefaultRemotiveURL is the public Remotive remote-jobs endpoint.
const DefaultRemotiveURL = "https://remotive.com/api/remote-jobs"

// Remotive is a keyless remote-only job board used as a secondary provider.
type Remotive struct {
	BaseURL string
	Client  *http.Client
	Now     func() time.Time
}

func NewRemotive() *Remotive {
	return &Remotive{
		BaseURL: DefaultRemotiveURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
		Now:     time.Now,
	}
}

func (r *Remotive) Name() string { return "Remotive" }

type remotiveResponse struct {
	Jobs []struct {
		Title           string `json:"title"`
		CompanyName     string `json:"company_name"`
		Salary          string `json:"salary"`
		URL             string `json:"url"`
		PublicationDate string `json:"publication_date"`
		Description     string `json:"description"`
	} `json:"jobs"`
}

// Search queries Remotive. Every Remotive listing is remote, so the query
// location is ignored and the listing location is fixed.
func (r *Remotive) Search(ctx context.Context, q Query) ([]types.Listing, error) {
	params := url.Values{}
	params.Set("search", q.Keywords)
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &Error{Provider: r.Name(), Message: "failed to create request", Cause: err}
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, &Error{Provider: r.Name(), Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Provider: r.Name(), Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	var decoded remotiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &Error{Provider: r.Name(), Message: "failed to decode response", Cause: err}
	}

	now := r.Now()
	listings := make([]types.Listing, 0, len(decoded.Jobs))
	for _, job := range decoded.Jobs {
		if !recentEnough(job.PublicationDate, now) {
			continue
		}
		salary := job.Salary
		if salary == "" {
			salary = "Not specified"
		}
		listings = append(listings, types.Listing{
			Title:       job.Title,
			Company:     job.CompanyName,
			Location:    "Remote",
			Salary:      salary,
			URL:         job.URL,
			Source:      r.Name(),
			Updated:     job.PublicationDate,
			RetrievedAt: now,
		})
		if q.Limit > 0 && len(listings) >= q.Limit {
			break
		}
	}
	return listings, nil
}
