package agent

import (
	"regexp"
	"strings"

	"github.com/chandan/job-agent/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?[0-9][0-9 ()\-]{7,}[0-9]`)
)

// candidateFromResume pulls the header details the PDF needs out of the
// resume text. The name is taken from a short leading line when one exists;
// email and phone come from the first things in the text that look like one.
func candidateFromResume(resumeText string) types.Candidate {
	cand := types.Candidate{Name: "Candidate"}

	for _, line := range strings.Split(resumeText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) < 40 && !strings.ContainsAny(line, "@0123456789") {
			cand.Name = line
		}
		break
	}

	if m := emailPattern.FindString(resumeText); m != "" {
		cand.Email = m
	}
	if m := phonePattern.FindString(resumeText); m != "" {
		cand.Phone = strings.TrimSpace(m)
	}
	return cand
}
