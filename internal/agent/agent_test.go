package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandan/job-agent/internal/compose"
	"github.com/chandan/job-agent/internal/export"
	"github.com/chandan/job-agent/internal/llm"
	"github.com/chandan/job-agent/internal/resume"
	"github.com/chandan/job-agent/internal/search"
	"github.com/chandan/job-agent/internal/session"
	"github.com/chandan/job-agent/internal/types"
)

type stubProvider struct {
	name     string
	listings []types.Listing
	err      error
	queries  []search.Query
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(_ context.Context, q search.Query) ([]types.Listing, error) {
	s.queries = append(s.queries, q)
	return s.listings, s.err
}

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) Close() error { return nil }

type stubExporter struct {
	result *export.Result
	err    error
	got    []types.Listing
}

func (s *stubExporter) Export(_ context.Context, listings []types.Listing) (*export.Result, error) {
	s.got = listings
	return s.result, s.err
}

func sampleListings(n int) []types.Listing {
	out := make([]types.Listing, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.Listing{
			Title:   fmt.Sprintf("Go Engineer %d", i+1),
			Company: fmt.Sprintf("Company %d", i+1),
			URL:     fmt.Sprintf("https://jobs.example/%d", i+1),
			Source:  "Jooble",
		})
	}
	return out
}

func testAgent(t *testing.T, primary search.Provider) *Agent {
	t.Helper()
	client := &stubLLM{response: `{"resume": "TAILORED RESUME", "cover_letter": "Dear team,"}`}
	return &Agent{
		Sessions:   session.NewStore(),
		Primary:    search.NewAggregator(primary),
		LLM:        client,
		Tailor:     llm.NewTailor(client),
		Resumes:    resume.NewStore(t.TempDir()),
		Composer:   compose.NewComposer(),
		OutputDir:  t.TempDir(),
		MaxResults: 10,
	}
}

func TestHandleMessageHelpAndStart(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble"})

	reply, err := a.HandleMessage(context.Background(), "u1", "/help")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "/search")

	reply, err = a.HandleMessage(context.Background(), "u1", "/start")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Welcome")

	reply, err = a.HandleMessage(context.Background(), "u1", "/frobnicate")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "/search", "unknown commands show help")
}

func TestHandleSearch(t *testing.T) {
	provider := &stubProvider{name: "Jooble", listings: sampleListings(2)}
	a := testAgent(t, provider)

	reply, err := a.HandleMessage(context.Background(), "u1", "/search golang remote")
	require.NoError(t, err)

	assert.Contains(t, reply.Text, `Found 2 recent jobs (last 3 days) for "golang" in "remote"`)
	assert.Contains(t, reply.Text, "1. Go Engineer 1")
	assert.Contains(t, reply.Text, "2. Go Engineer 2")
	assert.Contains(t, reply.Text, "/customize")

	require.Len(t, provider.queries, 1)
	assert.Equal(t, "golang", provider.queries[0].Keywords)
	assert.Equal(t, "remote", provider.queries[0].Location)

	st := a.Sessions.Peek("u1")
	assert.Len(t, st.Listings, 2)
	assert.Equal(t, "golang", st.LastQuery)
}

func TestHandleSearchDefaultLocation(t *testing.T) {
	provider := &stubProvider{name: "Jooble", listings: sampleListings(1)}
	a := testAgent(t, provider)
	a.DefaultLocation = "berlin"

	_, err := a.HandleMessage(context.Background(), "u1", "/search golang")
	require.NoError(t, err)

	require.Len(t, provider.queries, 1)
	assert.Equal(t, "berlin", provider.queries[0].Location, "configured default fills a missing location")
	assert.Equal(t, "berlin", a.Sessions.Peek("u1").LastLocation)

	_, err = a.HandleMessage(context.Background(), "u1", "/search golang onsite")
	require.NoError(t, err)
	require.Len(t, provider.queries, 2)
	assert.Equal(t, "onsite", provider.queries[1].Location, "explicit location wins")
}

func TestHandleSearchNoResults(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble"})

	reply, err := a.HandleMessage(context.Background(), "u1", "/search cobol")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "No recent jobs found")
}

func TestHandleSearchFailure(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble", err: errors.New("connection refused")})

	reply, err := a.HandleMessage(context.Background(), "u1", "/search golang")
	require.NoError(t, err, "provider failure is reply text, not an error")
	assert.Contains(t, reply.Text, "Search failed")
}

func TestHandleSearchResetsSelection(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble", listings: sampleListings(2)})
	require.NoError(t, a.Sessions.Do(context.Background(), "u1", func(_ context.Context, st *session.State) error {
		st.Selected = 2
		st.Tailored = &types.TailoredDocuments{TailoredResume: "old"}
		return nil
	}))

	_, err := a.HandleMessage(context.Background(), "u1", "/search golang")
	require.NoError(t, err)

	st := a.Sessions.Peek("u1")
	assert.Zero(t, st.Selected)
	assert.Nil(t, st.Tailored)
}

func TestHandleCustomize(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble", listings: sampleListings(2)})
	require.NoError(t, a.Resumes.Save("u1", "MY RESUME"))

	_, err := a.HandleMessage(context.Background(), "u1", "/search golang")
	require.NoError(t, err)

	reply, err := a.HandleMessage(context.Background(), "u1", "/customize 2")
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "Documents generated for Go Engineer 2 at Company 2")
	assert.Contains(t, reply.Text, "TAILORED RESUME")
	assert.Contains(t, reply.Text, "Dear team,")
	assert.NotContains(t, reply.Text, fallbackNotice)

	st := a.Sessions.Peek("u1")
	assert.Equal(t, 2, st.Selected)
	require.NotNil(t, st.Tailored)
	assert.False(t, st.Tailored.Fallback)
}

func TestHandleCustomizeBareNumberShortcut(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble", listings: sampleListings(1)})
	require.NoError(t, a.Resumes.Save("u1", "MY RESUME"))

	_, err := a.HandleMessage(context.Background(), "u1", "/search golang")
	require.NoError(t, err)

	reply, err := a.HandleMessage(context.Background(), "u1", "1")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Documents generated")
}

func TestHandleCustomizeFallbackNotice(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble", listings: sampleListings(1)})
	broken := &stubLLM{err: errors.New("quota exceeded")}
	a.LLM = broken
	a.Tailor = llm.NewTailor(broken)
	require.NoError(t, a.Resumes.Save("u1", "MY ORIGINAL RESUME"))

	_, err := a.HandleMessage(context.Background(), "u1", "/search golang")
	require.NoError(t, err)

	reply, err := a.HandleMessage(context.Background(), "u1", "/customize 1")
	require.NoError(t, err, "LLM failure never reaches the chat layer as an error")
	assert.Contains(t, reply.Text, fallbackNotice)
	assert.Contains(t, reply.Text, "MY ORIGINAL RESUME")
}

func TestHandleCustomizeGuards(t *testing.T) {
	t.Run("No search yet", func(t *testing.T) {
		a := testAgent(t, &stubProvider{name: "Jooble"})
		reply, err := a.HandleMessage(context.Background(), "u1", "/customize 1")
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "No search results yet")
	})

	t.Run("Out of range", func(t *testing.T) {
		a := testAgent(t, &stubProvider{name: "Jooble", listings: sampleListings(2)})
		require.NoError(t, a.Resumes.Save("u1", "resume"))
		_, err := a.HandleMessage(context.Background(), "u1", "/search golang")
		require.NoError(t, err)

		reply, err := a.HandleMessage(context.Background(), "u1", "/customize 9")
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "out of range")
	})

	t.Run("No resume", func(t *testing.T) {
		a := testAgent(t, &stubProvider{name: "Jooble", listings: sampleListings(1)})
		_, err := a.HandleMessage(context.Background(), "u1", "/search golang")
		require.NoError(t, err)

		reply, err := a.HandleMessage(context.Background(), "u1", "/customize 1")
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "No resume uploaded")
	})
}

func TestHandleCompose(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble", listings: sampleListings(1)})
	require.NoError(t, a.Resumes.Save("u1", "JANE DOE\njane@example.com\nEXPERIENCE\n* Go"))

	_, err := a.HandleMessage(context.Background(), "u1", "/search golang")
	require.NoError(t, err)
	_, err = a.HandleMessage(context.Background(), "u1", "/customize 1")
	require.NoError(t, err)

	reply, err := a.HandleMessage(context.Background(), "u1", "/compose")
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "PDF composed")
	require.NotEmpty(t, reply.DocumentPath)

	data, err := os.ReadFile(reply.DocumentPath)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestHandleComposeWithoutCustomize(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble"})
	reply, err := a.HandleMessage(context.Background(), "u1", "/compose")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "/customize")
}

func TestHandleExport(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble", listings: sampleListings(2)})
	exp := &stubExporter{result: &export.Result{Count: 2, URL: "https://docs.google.com/spreadsheets/d/x"}}
	a.Exporter = exp

	_, err := a.HandleMessage(context.Background(), "u1", "/search golang")
	require.NoError(t, err)

	reply, err := a.HandleMessage(context.Background(), "u1", "/export")
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "Exported 2 jobs")
	assert.Contains(t, reply.Text, "https://docs.google.com/spreadsheets/d/x")
	assert.Len(t, exp.got, 2)
}

func TestHandleExportGuards(t *testing.T) {
	t.Run("No jobs", func(t *testing.T) {
		a := testAgent(t, &stubProvider{name: "Jooble"})
		a.Exporter = &stubExporter{}
		reply, err := a.HandleMessage(context.Background(), "u1", "/export")
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "No jobs to export")
	})

	t.Run("Not configured", func(t *testing.T) {
		a := testAgent(t, &stubProvider{name: "Jooble", listings: sampleListings(1)})
		_, err := a.HandleMessage(context.Background(), "u1", "/search golang")
		require.NoError(t, err)

		reply, err := a.HandleMessage(context.Background(), "u1", "/export")
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "not configured")
	})

	t.Run("Backend failure", func(t *testing.T) {
		a := testAgent(t, &stubProvider{name: "Jooble", listings: sampleListings(1)})
		a.Exporter = &stubExporter{err: &export.Error{Message: "failed to open spreadsheet"}}
		_, err := a.HandleMessage(context.Background(), "u1", "/search golang")
		require.NoError(t, err)

		reply, err := a.HandleMessage(context.Background(), "u1", "/export")
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "Export failed")
	})
}

func TestHandleMore(t *testing.T) {
	primary := &stubProvider{name: "Jooble", listings: sampleListings(2)}
	a := testAgent(t, primary)
	a.LLM = &stubLLM{response: `{"variations": ["Backend Engineer"]}`}

	extra := &stubProvider{name: "Remotive", listings: []types.Listing{
		{Title: "Remote Go Dev", Company: "Fresh Co", URL: "https://remotive.com/new", Source: "Remotive"},
		{Title: "Go Engineer 1", Company: "Company 1", URL: "https://jobs.example/1", Source: "Remotive"},
	}}
	a.Extra = []search.Provider{extra}

	_, err := a.HandleMessage(context.Background(), "u1", "/search golang")
	require.NoError(t, err)

	reply, err := a.HandleMessage(context.Background(), "u1", "/more")
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "3. Remote Go Dev", "numbering continues after existing results")
	assert.NotContains(t, reply.Text, "4.", "already-seen URL skipped")
	assert.Contains(t, reply.Text, "Also searched: Backend Engineer")

	st := a.Sessions.Peek("u1")
	assert.Len(t, st.Listings, 3)
}

func TestHandleMoreWithoutSearch(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble"})
	a.Extra = []search.Provider{&stubProvider{name: "Remotive"}}

	reply, err := a.HandleMessage(context.Background(), "u1", "/more")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "No previous search")
}

func TestHandleChat(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble"})
	a.LLM = &stubLLM{response: "Focus on backend roles."}

	reply, err := a.HandleMessage(context.Background(), "u1", "what should I apply to?")
	require.NoError(t, err)
	assert.Equal(t, "Focus on backend roles.", reply.Text)
}

func TestUploadResume(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble"})

	reply, err := a.UploadResume(context.Background(), "u1", "resume.txt", []byte("JANE DOE\nEXPERIENCE"))
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Resume stored")

	stored, err := a.Resumes.Load("u1")
	require.NoError(t, err)
	assert.Equal(t, "JANE DOE\nEXPERIENCE", stored)

	st := a.Sessions.Peek("u1")
	assert.Equal(t, "JANE DOE\nEXPERIENCE", st.ResumeText)
}

func TestUploadResumeUnsupported(t *testing.T) {
	a := testAgent(t, &stubProvider{name: "Jooble"})

	reply, err := a.UploadResume(context.Background(), "u1", "resume.odt", []byte("data"))
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Could not read that resume")
}
