// Package observability provides formatted output utilities for the CLI's
// verbose mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/chandan/job-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of listings to display
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintListings outputs a summary of one search round.
func (p *Printer) PrintListings(query string, listings []types.Listing) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Query:    %s\n", query))
	sb.WriteString(fmt.Sprintf("Results:  %d\n", len(listings)))
	sb.WriteString("\n")

	count := min(len(listings), maxItemsToShow)
	for i := 0; i < count; i++ {
		l := listings[i]
		sb.WriteString(fmt.Sprintf("  %d. %s at %s", i+1, l.Title, l.Company))
		if l.Source != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", l.Source))
		}
		sb.WriteString("\n")
	}
	if len(listings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(listings)-maxItemsToShow))
	}

	p.printBox("SEARCH RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocuments outputs a summary of the tailoring step.
func (p *Printer) PrintDocuments(docs types.TailoredDocuments) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Resume:       %d chars\n", len(docs.TailoredResume)))
	sb.WriteString(fmt.Sprintf("Cover letter: %d chars\n", len(docs.CoverLetter)))
	if docs.Fallback {
		sb.WriteString("Fallback:     model unavailable, original text kept\n")
	}
	p.printBox("TAILORED DOCUMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComposed outputs the result of the compose step.
func (p *Printer) PrintComposed(path string, pages int) {
	content := fmt.Sprintf("File:  %s\nPages: %d", path, pages)
	p.printBox("COMPOSED DOCUMENT", content)
}
