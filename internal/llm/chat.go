package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/chandan/job-agent/internal/types"
)

const chatPromptTemplate = `You are a helpful career advisor. Use the context
below (the candidate's resume and the jobs found so far) to answer the
question helpfully and professionally. Keep answers concise and plain text.

CONTEXT:
%s

Question: %s
`

// BuildChatContext assembles the context block the advisor is grounded in.
func BuildChatContext(resume string, listings []types.Listing) string {
	var sb strings.Builder
	sb.WriteString("Candidate's Resume:\n")
	if resume == "" {
		sb.WriteString("No resume uploaded.\n")
	} else {
		sb.WriteString(resume)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if len(listings) == 0 {
		sb.WriteString("No jobs currently found in the session.")
		return sb.String()
	}

	sb.WriteString("Found Jobs:\n")
	for i, l := range listings {
		sb.WriteString(fmt.Sprintf("%d. %s at %s (%s)\n", i+1, l.Title, l.Company, l.Location))
	}
	return sb.String()
}

// Advise answers a free-form question grounded in the session context.
func Advise(ctx context.Context, client Client, question, contextBlock string) (string, error) {
	prompt := fmt.Sprintf(chatPromptTemplate, contextBlock, question)
	answer, err := client.GenerateContent(ctx, prompt, TierStandard)
	if err != nil {
		return "", fmt.Errorf("chat generation failed: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
