package compose

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/chandan/job-agent/internal/types"
)

// Composer builds the application document: a cover-letter page followed by
// the tailored resume. All input text is arbitrary user- or LLM-produced
// content; the composer sanitizes and wraps it so that composition itself can
// only fail at the write boundary.
type Composer struct {
	Spec PageSpec

	// Now supplies the letter date; overridable for deterministic tests.
	Now func() time.Time
}

// NewComposer returns a composer with the default page geometry.
func NewComposer() *Composer {
	return &Composer{Spec: A4, Now: time.Now}
}

// Result is the composed artifact.
type Result struct {
	Doc       *Document
	PageCount int
}

// Compose lays out the cover letter and resume for the candidate. Empty
// sections still produce a valid document with header and margins only.
func (c *Composer) Compose(cand types.Candidate, docs types.TailoredDocuments) *Result {
	l := NewLayout(c.Spec)

	c.coverLetterPage(l, cand, docs.CoverLetter)
	l.BreakPage()
	c.resumePages(l, cand, docs.TailoredResume)

	pages := l.Pages()
	doc := NewDocument(c.Spec, DocumentInfo{
		Title:  fmt.Sprintf("Job Application - %s", Sanitize(cand.Name)),
		Author: Sanitize(cand.Name),
	}, pages)

	return &Result{Doc: doc, PageCount: len(pages)}
}

// OutputPath names the artifact file for a user under dir.
func OutputPath(dir, userID string, now time.Time) string {
	name := fmt.Sprintf("JobApplication_%s_%s.pdf", userID, now.Format("20060102_150405"))
	return filepath.Join(dir, name)
}

func (c *Composer) coverLetterPage(l *Layout, cand types.Candidate, letter string) {
	name := strings.ToUpper(Sanitize(cand.Name))

	l.Spacer(4)
	l.WriteWrapped(name, TextStyle{Font: HelveticaBold, Size: 16, Color: HeaderInk})
	l.WriteWrapped(contactLine(cand), TextStyle{Font: Helvetica, Size: 10, Color: SoftGray})
	l.Spacer(6)
	l.Rule(RuleGray, 0.5, 12)

	l.WriteWrapped(c.Now().Format("January 2, 2006"), TextStyle{Font: Helvetica, Size: 10, Color: Black})
	l.Spacer(12)

	l.WriteWrapped("COVER LETTER", TextStyle{Font: HelveticaBold, Size: 12, Color: HeaderInk})
	l.Rule(HeaderInk, 0.8, 14)

	if strings.TrimSpace(letter) == "" {
		letter = "No cover letter content"
	}
	l.WriteWrapped(letter, TextStyle{Font: Helvetica, Size: 11, Color: Black, LineHeight: 16})
}

func (c *Composer) resumePages(l *Layout, cand types.Candidate, resume string) {
	name := strings.ToUpper(Sanitize(cand.Name))

	l.Spacer(4)
	l.WriteWrapped(name, TextStyle{Font: HelveticaBold, Size: 18, Color: HeaderInk, Center: true})
	l.WriteWrapped(contactLine(cand), TextStyle{Font: Helvetica, Size: 10, Color: Black, Center: true})
	l.Spacer(8)

	for _, raw := range strings.Split(Sanitize(resume), "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			l.Spacer(4)
		case isSectionHeader(line):
			l.Spacer(6)
			l.WriteWrapped(line, TextStyle{Font: HelveticaBold, Size: 11, Color: HeaderInk})
			l.Rule(HeaderInk, 0.6, 8)
		case strings.HasPrefix(line, "*") || strings.HasPrefix(line, "-"):
			body := strings.TrimSpace(line[1:])
			l.WriteWrapped("- "+body, TextStyle{Font: Helvetica, Size: 10, Indent: 12, Color: Black})
		default:
			l.WriteWrapped(line, TextStyle{Font: Helvetica, Size: 10, Color: Black})
		}
	}
}

// isSectionHeader reports whether a resume line is an ALL-CAPS section title.
func isSectionHeader(line string) bool {
	if len(line) <= 3 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func contactLine(cand types.Candidate) string {
	parts := make([]string, 0, 2)
	if cand.Email != "" {
		parts = append(parts, cand.Email)
	}
	if cand.Phone != "" {
		parts = append(parts, cand.Phone)
	}
	return strings.Join(parts, " | ")
}
