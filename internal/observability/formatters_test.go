package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chandan/job-agent/internal/types"
)

func TestPrintListings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	listings := []types.Listing{
		{Title: "Go Dev", Company: "Acme", Source: "Jooble"},
		{Title: "SRE", Company: "Globex", Source: "Remotive"},
	}
	p.PrintListings("golang", listings)

	out := buf.String()
	assert.Contains(t, out, "SEARCH RESULTS")
	assert.Contains(t, out, "Query:    golang")
	assert.Contains(t, out, "Results:  2")
	assert.Contains(t, out, "1. Go Dev at Acme [Jooble]")
}

func TestPrintListingsTruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	listings := make([]types.Listing, 8)
	for i := range listings {
		listings[i] = types.Listing{Title: "Job", Company: "Co"}
	}
	p.PrintListings("golang", listings)

	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintDocumentsFallback(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDocuments(types.TailoredDocuments{TailoredResume: "abc", Fallback: true})

	out := buf.String()
	assert.Contains(t, out, "TAILORED DOCUMENTS")
	assert.Contains(t, out, "Fallback:")
}

func TestPrintBoxLinesStayInsideBorder(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintComposed(strings.Repeat("a", 120), 3)

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.True(t, strings.HasPrefix(line, "┌") || strings.HasPrefix(line, "│") ||
			strings.HasPrefix(line, "├") || strings.HasPrefix(line, "└"))
	}
}
