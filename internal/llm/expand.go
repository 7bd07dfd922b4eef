package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/chandan/job-agent/internal/schemas"
)

const expandPromptTemplate = `You are a recruitment expert. Expand the job
search query %q into 5 highly related but distinct job titles or search terms.
These will be used to find a variety of relevant jobs.

Examples:
- "ML/AI" -> Python Developer, Data Scientist, LLM Engineer, Research Scientist, Computer Vision Engineer
- "Frontend" -> React Developer, UI/UX Engineer, Javascript Developer, Frontend Architect, Web Developer

Return ONLY a JSON object of the form:
{"variations": ["<title 1>", "<title 2>", "<title 3>", "<title 4>", "<title 5>"]}
`

// maxVariations caps how many expanded titles one /more round searches.
const maxVariations = 5

// ExpandQuery asks the model for related job titles. It degrades rather than
// fails: on any error the original query comes back as the only variation.
// The original query is always present in the result.
func ExpandQuery(ctx context.Context, client Client, query string) []string {
	raw, err := client.GenerateJSON(ctx, fmt.Sprintf(expandPromptTemplate, query), TierLite)
	if err != nil {
		log.Printf("[LLM] query expansion failed: %v", err)
		return []string{query}
	}

	if err := schemas.Validate(schemas.QueryExpansion, raw); err != nil {
		log.Printf("[LLM] expansion output rejected: %v", err)
		return []string{query}
	}

	var payload struct {
		Variations []string `json:"variations"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		log.Printf("[LLM] expansion output unparseable: %v", err)
		return []string{query}
	}

	variations := make([]string, 0, maxVariations)
	for _, v := range payload.Variations {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		variations = append(variations, v)
		if len(variations) == maxVariations {
			break
		}
	}
	if len(variations) == 0 {
		return []string{query}
	}

	for _, v := range variations {
		if strings.EqualFold(v, query) {
			return variations
		}
	}
	return append([]string{query}, variations...)
}
