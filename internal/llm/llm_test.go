package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandan/job-agent/internal/types"
)

// fakeClient returns canned responses and records the prompts it saw.
type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain JSON", `{"a": 1}`, `{"a": 1}`},
		{"JSON fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"Bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"Fence with language", "```javascript\n{\"a\": 1}\n```", `{"a": 1}`},
		{"Surrounding whitespace", "  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestConfigGetModelFallback(t *testing.T) {
	c := &Config{Models: map[ModelTier]string{TierLite: "lite-model"}}
	assert.Equal(t, "lite-model", c.GetModel(TierAdvanced))

	c = DefaultConfig()
	assert.Equal(t, "gemini-2.5-pro", c.GetModel(TierAdvanced))
}

func TestTailorDocuments(t *testing.T) {
	client := &fakeClient{
		response: `{"resume": "TAILORED\n* Go", "cover_letter": "Dear Acme,"}`,
	}
	tailor := NewTailor(client)

	docs := tailor.Documents(context.Background(), "ORIGINAL RESUME", types.Listing{
		Title:   "Go Developer",
		Company: "Acme",
		Snippet: "Build distributed systems",
	})

	assert.False(t, docs.Fallback)
	assert.Equal(t, "TAILORED\n* Go", docs.TailoredResume)
	assert.Equal(t, "Dear Acme,", docs.CoverLetter)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "ORIGINAL RESUME")
	assert.Contains(t, client.prompts[0], "Go Developer")
	assert.Contains(t, client.prompts[0], "Acme")
}

func TestTailorDocumentsFallbackOnError(t *testing.T) {
	tailor := NewTailor(&fakeClient{err: errors.New("quota exceeded")})

	docs := tailor.Documents(context.Background(), "ORIGINAL RESUME", types.Listing{Company: "Acme"})

	assert.True(t, docs.Fallback)
	assert.Equal(t, "ORIGINAL RESUME", docs.TailoredResume, "original text survives unchanged")
	assert.Empty(t, docs.CoverLetter)
}

func TestTailorDocumentsFallbackOnInvalidOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"Not JSON", "here is your resume: ..."},
		{"Schema violation", `{"resume": ""}`},
		{"Wrong shape", `{"documents": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tailor := NewTailor(&fakeClient{response: tt.response})
			docs := tailor.Documents(context.Background(), "ORIGINAL", types.Listing{})
			assert.True(t, docs.Fallback)
			assert.Equal(t, "ORIGINAL", docs.TailoredResume)
		})
	}
}

func TestExpandQuery(t *testing.T) {
	client := &fakeClient{
		response: `{"variations": ["Python Developer", "Data Scientist", "LLM Engineer"]}`,
	}
	got := ExpandQuery(context.Background(), client, "ML/AI")
	assert.Equal(t, []string{"ML/AI", "Python Developer", "Data Scientist", "LLM Engineer"}, got)
}

func TestExpandQueryKeepsOriginalOnce(t *testing.T) {
	client := &fakeClient{
		response: `{"variations": ["go developer", "Backend Engineer"]}`,
	}
	got := ExpandQuery(context.Background(), client, "Go Developer")
	assert.Equal(t, []string{"go developer", "Backend Engineer"}, got,
		"case-insensitive match means no duplicate insertion")
}

func TestExpandQueryFallsBackToOriginal(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
	}{
		{"Error", &fakeClient{err: errors.New("down")}},
		{"Invalid JSON", &fakeClient{response: "Python Developer, Data Scientist"}},
		{"Empty variations", &fakeClient{response: `{"variations": []}`}},
		{"Whitespace only", &fakeClient{response: `{"variations": [" "]}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandQuery(context.Background(), tt.client, "golang")
			assert.Equal(t, []string{"golang"}, got)
		})
	}
}

func TestBuildChatContext(t *testing.T) {
	ctxBlock := BuildChatContext("MY RESUME", []types.Listing{
		{Title: "Go Dev", Company: "Acme", Location: "Berlin"},
	})
	assert.Contains(t, ctxBlock, "MY RESUME")
	assert.Contains(t, ctxBlock, "1. Go Dev at Acme (Berlin)")

	empty := BuildChatContext("", nil)
	assert.Contains(t, empty, "No resume uploaded.")
	assert.Contains(t, empty, "No jobs currently found")
}

func TestAdvise(t *testing.T) {
	client := &fakeClient{response: "  Tailor your resume per role.  "}
	answer, err := Advise(context.Background(), client, "Any tips?", "CONTEXT")
	require.NoError(t, err)
	assert.Equal(t, "Tailor your resume per role.", answer)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "CONTEXT")
	assert.Contains(t, client.prompts[0], "Any tips?")
}

func TestAdviseError(t *testing.T) {
	client := &fakeClient{err: errors.New("down")}
	_, err := Advise(context.Background(), client, "Any tips?", "CONTEXT")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "chat generation failed"))
}
