package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chandan/job-agent/internal/types"
)

// Jooble is the primary job board provider. Its API is a single POST endpoint
// keyed by the API key in the URL path.
type Jooble struct {
	APIKey  string
	BaseURL string
	Client  *http.Client

	// Now is overridable for recency-filter tests.
	Now func() time.Time
}

// NewJooble creates a Jooble provider. baseURL carries a trailing slash so
// that appending the key yields the request URL.
func NewJooble(apiKey, baseURL string) *Jooble {
	return &Jooble{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: DefaultTimeout},
		Now:     time.Now,
	}
}

func (j *Jooble) Name() string { return "Jooble" }

type joobleRequest struct {
	Keywords string `json:"keywords"`
	Location string `json:"location"`
	Page     int    `json:"page"`
}

type joobleResponse struct {
	Jobs []struct {
		Title    string `json:"title"`
		Company  string `json:"company"`
		Location string `json:"location"`
		Salary   string `json:"salary"`
		Snippet  string `json:"snippet"`
		Link     string `json:"link"`
		Updated  string `json:"updated"`
	} `json:"jobs"`
	TotalCount int `json:"totalCount"`
}

// Search queries Jooble and keeps listings updated within the recency window.
func (j *Jooble) Search(ctx context.Context, q Query) ([]types.Listing, error) {
	payload, err := json.Marshal(joobleRequest{
		Keywords: q.Keywords,
		Location: q.Location,
		Page:     1,
	})
	if err != nil {
		return nil, &Error{Provider: j.Name(), Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.BaseURL+j.APIKey, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Provider: j.Name(), Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.Client.Do(req)
	if err != nil {
		return nil, &Error{Provider: j.Name(), Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &Error{
			Provider: j.Name(),
			Message:  fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, body),
		}
	}

	var decoded joobleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &Error{Provider: j.Name(), Message: "failed to decode response", Cause: err}
	}

	now := j.Now()
	listings := make([]types.Listing, 0, len(decoded.Jobs))
	for _, job := range decoded.Jobs {
		if !recentEnough(job.Updated, now) {
			continue
		}
		listings = append(listings, types.Listing{
			Title:       job.Title,
			Company:     job.Company,
			Location:    job.Location,
			Salary:      job.Salary,
			Snippet:     job.Snippet,
			URL:         job.Link,
			Source:      j.Name(),
			Updated:     job.Updated,
			RetrievedAt: now,
		})
		if q.Limit > 0 && len(listings) >= q.Limit {
			break
		}
	}
	return listings, nil
}
