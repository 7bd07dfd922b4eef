// Package fetch retrieves job posting pages and reduces them to plain text
// for the customization step. Listings from the search providers usually
// carry only a short snippet; fetching the posting URL gives the model the
// full requirements to tailor against.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/chandan/job-agent/internal/types"
)

// DefaultTimeout is the HTTP request timeout for posting fetches.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for posting fetches.
const DefaultUserAgent = "Mozilla/5.0 (compatible; JobAgent/1.0)"

// minPostingLength is the extracted-text length below which a page is
// considered JavaScript-rendered and worth a browser retry.
const minPostingLength = 500

// Error represents a failure retrieving or parsing a posting page.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Fetcher retrieves posting pages over plain HTTP with an optional headless
// browser fallback for SPA job boards.
type Fetcher struct {
	Client     *http.Client
	UserAgent  string
	UseBrowser bool
	Verbose    bool

	// render is the browser fallback, swapped out in tests.
	render func(ctx context.Context, url string, verbose bool) (string, error)
}

func New() *Fetcher {
	return &Fetcher{
		Client:    &http.Client{Timeout: DefaultTimeout},
		UserAgent: DefaultUserAgent,
		render:    renderWithBrowser,
	}
}

// postingSelectors locate the description block on common job board layouts.
var postingSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// PostingText fetches a posting URL and returns its plain-text description.
// When the plain HTTP fetch yields too little text and the browser fallback
// is enabled, the page is re-rendered headless and extracted again.
func (f *Fetcher) PostingText(ctx context.Context, urlStr string) (string, error) {
	html, err := f.fetchHTML(ctx, urlStr)
	if err != nil {
		return "", err
	}

	text, err := extractPostingText(html)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}

	if len(strings.TrimSpace(text)) < minPostingLength && f.UseBrowser {
		rendered, rerr := f.render(ctx, urlStr, f.Verbose)
		if rerr != nil {
			// The thin static text is still better than nothing.
			return text, nil
		}
		if rtext, rerr := extractPostingText(rendered); rerr == nil && len(rtext) > len(text) {
			text = rtext
		}
	}
	return text, nil
}

// Enrich replaces a listing's snippet with the fetched posting text when the
// snippet alone is too thin to tailor against. Fetch failures leave the
// listing unchanged.
func (f *Fetcher) Enrich(ctx context.Context, listing types.Listing) types.Listing {
	if listing.URL == "" || len(listing.Snippet) >= minPostingLength {
		return listing
	}
	text, err := f.PostingText(ctx, listing.URL)
	if err != nil || len(text) <= len(listing.Snippet) {
		return listing
	}
	listing.Snippet = text
	return listing
}

func (f *Fetcher) fetchHTML(ctx context.Context, urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	return string(body), nil
}

// extractPostingText parses HTML and returns the posting's main body text.
func extractPostingText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()

	var content *goquery.Selection
	for _, selector := range postingSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	return collapseWhitespace(content.Text()), nil
}

// collapseWhitespace trims every line and drops the empty ones.
func collapseWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
