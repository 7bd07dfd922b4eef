package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/chandan/job-agent/internal/schemas"
	"github.com/chandan/job-agent/internal/types"
)

const tailorPromptTemplate = `You are an expert resume and cover letter writer.
Customize the resume below for the job description while staying truthful.

Resume guidelines:
- Highlight relevant skills and experiences that match the job requirements
- Reorder sections to emphasize the most relevant qualifications first
- Use keywords from the job description naturally
- Keep the resume concise, plain text, section headers in ALL CAPS, bullet
  points starting with "*"
- DO NOT fabricate experience or skills

Cover letter guidelines:
- Start with an attention-grabbing opening
- Show genuine interest in %s
- Highlight 2-3 key qualifications that match the role
- Keep it to 3-4 paragraphs, professional but personable

Return ONLY a JSON object of the form:
{"resume": "<customized resume text>", "cover_letter": "<cover letter text>"}

Base Resume:
%s

Job Description:
%s
`

// Tailor produces customized application documents for one job listing.
type Tailor struct {
	client Client
}

func NewTailor(client Client) *Tailor {
	return &Tailor{client: client}
}

type tailoredPayload struct {
	Resume      string `json:"resume"`
	CoverLetter string `json:"cover_letter"`
}

// Documents customizes the resume and writes a cover letter for the listing.
// It never fails toward the caller: any model or validation error yields the
// original resume text with the Fallback flag set, so the conversation can
// continue with a visible notice instead of an error.
func (t *Tailor) Documents(ctx context.Context, resume string, listing types.Listing) types.TailoredDocuments {
	company := listing.Company
	if company == "" {
		company = "the company"
	}
	prompt := fmt.Sprintf(tailorPromptTemplate, company, resume, listing.Description())

	raw, err := t.client.GenerateJSON(ctx, prompt, TierAdvanced)
	if err != nil {
		log.Printf("[LLM] tailoring failed: %v", err)
		return fallbackDocuments(resume)
	}

	if err := schemas.Validate(schemas.TailoredDocuments, raw); err != nil {
		log.Printf("[LLM] tailored output rejected: %v", err)
		return fallbackDocuments(resume)
	}

	var payload tailoredPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		log.Printf("[LLM] tailored output unparseable: %v", err)
		return fallbackDocuments(resume)
	}

	return types.TailoredDocuments{
		TailoredResume: payload.Resume,
		CoverLetter:    payload.CoverLetter,
	}
}

func fallbackDocuments(resume string) types.TailoredDocuments {
	return types.TailoredDocuments{
		TailoredResume: resume,
		Fallback:       true,
	}
}
