package agent

import (
	"fmt"
	"strings"

	"github.com/chandan/job-agent/internal/types"
)

const helpMessage = `Job Agent commands:

/search <keywords> [location]
    Search for jobs. Example: /search python developer remote

/customize <job number>
    Tailor your resume and write a cover letter for one search result.
    Sending just the number works too.

/compose
    Combine the tailored resume and cover letter into a PDF.

/export
    Export all found jobs to your Google Sheet.

/more
    Find more jobs from other platforms based on your last search.

/resume
    Upload a new resume (send the file after this command).

/chat <message>
    Ask for job suggestions or career advice.

/help
    Show this message.

Quick start: upload a resume with /resume, search with /search, pick a
job number, then /compose and /export.`

const startMessage = `Welcome to Job Agent.

I help you find jobs, tailor your resume, and track applications.

Start by uploading your resume with /resume, then search with
/search <keywords> [location]. Use /help to see every command.`

const snippetPreviewLength = 150

// formatListing renders one numbered search result.
func formatListing(l types.Listing, index int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d. %s\n", index, orUnknown(l.Title, "Unknown Title"))
	fmt.Fprintf(&sb, "   Company:  %s\n", orUnknown(l.Company, "Unknown Company"))
	fmt.Fprintf(&sb, "   Location: %s\n", orUnknown(l.Location, "Unknown Location"))
	fmt.Fprintf(&sb, "   Salary:   %s\n", orUnknown(l.Salary, "Not specified"))
	if l.Source != "" {
		fmt.Fprintf(&sb, "   Source:   %s\n", l.Source)
	}
	if l.Snippet != "" {
		fmt.Fprintf(&sb, "   %s\n", previewSnippet(l.Snippet))
	}
	if l.URL != "" {
		fmt.Fprintf(&sb, "   %s\n", l.URL)
	}
	return sb.String()
}

// formatListings renders a numbered result block starting at a given number,
// so /more output continues the /search numbering.
func formatListings(listings []types.Listing, startIndex int) string {
	var sb strings.Builder
	for i, l := range listings {
		sb.WriteString(formatListing(l, startIndex+i))
		sb.WriteString("\n")
	}
	return sb.String()
}

func previewSnippet(snippet string) string {
	snippet = strings.Join(strings.Fields(snippet), " ")
	if len(snippet) <= snippetPreviewLength {
		return snippet
	}
	return snippet[:snippetPreviewLength] + "..."
}

func orUnknown(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
