package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/chandan/job-agent/internal/compose"
	"github.com/chandan/job-agent/internal/export"
	"github.com/chandan/job-agent/internal/fetch"
	"github.com/chandan/job-agent/internal/llm"
	"github.com/chandan/job-agent/internal/resume"
	"github.com/chandan/job-agent/internal/search"
	"github.com/chandan/job-agent/internal/session"
	"github.com/chandan/job-agent/internal/types"
)

// fallbackNotice is shown instead of failing when tailoring degrades.
const fallbackNotice = "Note: the language model was unavailable, so your original resume text is attached unchanged. Try /customize again later."

// moreBatchCap bounds how many extra listings one /more round may add.
const moreBatchCap = 20

// Reply is what the agent sends back for one message.
type Reply struct {
	Text string
	// DocumentPath is set when a freshly composed PDF should be delivered.
	DocumentPath string
}

// Agent wires the session store to the search, LLM, compose, and export
// machinery. Optional dependencies are nil when unconfigured and their
// commands answer with a configuration hint instead.
type Agent struct {
	Sessions *session.Store
	Primary  *search.Aggregator // /search providers
	Extra    []search.Provider  // /more providers, authority order
	LLM      llm.Client
	Tailor   *llm.Tailor
	Fetcher  *fetch.Fetcher
	Resumes  *resume.Store
	Composer *compose.Composer
	Exporter Exporter

	OutputDir  string
	MaxResults int

	// DefaultLocation applies when a search names no location.
	DefaultLocation string
}

// Exporter is the slice of the export package the agent needs.
type Exporter interface {
	Export(ctx context.Context, listings []types.Listing) (*export.Result, error)
}

// HandleMessage routes and executes one chat message for a user. Execution
// is serialized per user; a newer message cancels the one still running.
// Domain failures come back as reply text, not as errors: the error return is
// reserved for cancellation and session-level faults.
func (a *Agent) HandleMessage(ctx context.Context, userID, text string) (Reply, error) {
	cmd := Route(text)
	log.Printf("[AGENT] user=%s action=%s", userID, cmd.Action)

	var reply Reply
	err := a.Sessions.Do(ctx, userID, func(ctx context.Context, st *session.State) error {
		if cmd.Usage != "" {
			reply = Reply{Text: cmd.Usage}
			return nil
		}

		switch cmd.Action {
		case ActionStart:
			reply = Reply{Text: startMessage}
		case ActionHelp, ActionUnknown:
			reply = Reply{Text: helpMessage}
		case ActionSearch:
			reply = a.handleSearch(ctx, st, cmd)
		case ActionMore:
			reply = a.handleMore(ctx, st)
		case ActionCustomize:
			reply = a.handleCustomize(ctx, userID, st, cmd.Number)
		case ActionCompose:
			reply = a.handleCompose(ctx, userID, st)
		case ActionExport:
			reply = a.handleExport(ctx, st)
		case ActionResume:
			reply = Reply{Text: "Send your resume file (PDF or TXT) as the next upload."}
		case ActionChat:
			reply = a.handleChat(ctx, userID, st, cmd.Message)
		}
		return ctx.Err()
	})
	if err != nil {
		return Reply{}, err
	}
	return reply, nil
}

// UploadResume parses an uploaded file, persists the text, and loads it into
// the session.
func (a *Agent) UploadResume(ctx context.Context, userID, filename string, data []byte) (Reply, error) {
	text, err := resume.Parse(data, filename)
	if err != nil {
		return Reply{Text: fmt.Sprintf("Could not read that resume: %v", err)}, nil
	}

	var reply Reply
	serr := a.Sessions.Do(ctx, userID, func(ctx context.Context, st *session.State) error {
		if err := a.Resumes.Save(userID, text); err != nil {
			log.Printf("[AGENT] saving resume for %s failed: %v", userID, err)
			reply = Reply{Text: "Storing your resume failed. Try the upload again."}
			return nil
		}
		st.ResumeText = text
		reply = Reply{Text: fmt.Sprintf("Resume stored (%d characters). Now search with /search <keywords> [location].", len(text))}
		return ctx.Err()
	})
	if serr != nil {
		return Reply{}, serr
	}
	return reply, nil
}

func (a *Agent) handleSearch(ctx context.Context, st *session.State, cmd Command) Reply {
	location := cmd.Location
	if location == "" {
		location = a.DefaultLocation
	}
	if location == "" {
		location = "remote"
	}

	set, err := a.Primary.Search(ctx, search.Query{
		Keywords: cmd.Query,
		Location: location,
		Limit:    a.MaxResults,
	})
	if err != nil {
		return Reply{Text: fmt.Sprintf("Search failed: %v\nTry again in a moment.", err)}
	}

	st.LastQuery = cmd.Query
	st.LastLocation = location
	st.Listings = set.Listings
	st.Selected = 0
	st.Tailored = nil

	if len(set.Listings) == 0 {
		return Reply{Text: fmt.Sprintf("No recent jobs found for %q in %q. Try different keywords or location.", cmd.Query, location)}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d recent jobs (last 3 days) for %q in %q:\n\n", len(set.Listings), cmd.Query, location)
	sb.WriteString(formatListings(set.Listings, 1))
	if len(set.Failed) > 0 {
		fmt.Fprintf(&sb, "(results from %s unavailable)\n\n", strings.Join(set.Failed, ", "))
	}
	sb.WriteString("Reply with /customize <number> to tailor your resume for a job.")
	return Reply{Text: sb.String()}
}

func (a *Agent) handleMore(ctx context.Context, st *session.State) Reply {
	if st.LastQuery == "" {
		return Reply{Text: "No previous search found. Use /search first."}
	}
	if len(a.Extra) == 0 {
		return Reply{Text: "No additional job boards are configured."}
	}

	variations := []string{st.LastQuery}
	if a.LLM != nil {
		variations = llm.ExpandQuery(ctx, a.LLM, st.LastQuery)
	}

	seen := st.SeenURLs()
	var batch []types.Listing
	for _, provider := range a.Extra {
		for _, variation := range variations {
			if len(batch) >= moreBatchCap {
				break
			}
			listings, err := provider.Search(ctx, search.Query{
				Keywords: variation,
				Location: st.LastLocation,
				Limit:    moreBatchCap - len(batch),
			})
			if err != nil {
				log.Printf("[AGENT] /more provider %s failed: %v", provider.Name(), err)
				continue
			}
			for _, l := range listings {
				if l.URL != "" && seen[l.URL] {
					continue
				}
				seen[l.URL] = true
				batch = append(batch, l)
				if len(batch) >= moreBatchCap {
					break
				}
			}
		}
	}

	if len(batch) == 0 {
		return Reply{Text: fmt.Sprintf("No additional recent jobs found for %q or related fields.", st.LastQuery)}
	}

	startIndex := len(st.Listings) + 1
	st.Listings = append(st.Listings, batch...)

	var sb strings.Builder
	fmt.Fprintf(&sb, "More jobs for %q from other platforms:\n", st.LastQuery)
	if len(variations) > 1 {
		fmt.Fprintf(&sb, "Also searched: %s\n", strings.Join(variations[1:], ", "))
	}
	sb.WriteString("\n")
	sb.WriteString(formatListings(batch, startIndex))
	fmt.Fprintf(&sb, "Found %d extra jobs. Use /customize <number> to pick one.", len(batch))
	return Reply{Text: sb.String()}
}

func (a *Agent) handleCustomize(ctx context.Context, userID string, st *session.State, n int) Reply {
	listing, err := st.Listing(n)
	if err != nil {
		var re *session.RangeError
		if errors.As(err, &re) && re.Max == 0 {
			return Reply{Text: "No search results yet. Use /search first."}
		}
		return Reply{Text: fmt.Sprintf("%v. Pick a number from the last search.", err)}
	}

	resumeText := a.loadResume(userID, st)
	if resumeText == "" {
		return Reply{Text: "No resume uploaded. Send your resume with /resume first."}
	}

	if a.Tailor == nil {
		return Reply{Text: "Resume tailoring is not configured (missing LLM API key)."}
	}

	if a.Fetcher != nil {
		listing = a.Fetcher.Enrich(ctx, listing)
	}
	if ctx.Err() != nil {
		return Reply{}
	}

	docs := a.Tailor.Documents(ctx, resumeText, listing)
	st.Selected = n
	st.Tailored = &docs

	var sb strings.Builder
	fmt.Fprintf(&sb, "Documents generated for %s at %s.\n\n", listing.Title, listing.Company)
	if docs.Fallback {
		sb.WriteString(fallbackNotice)
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "Tailored resume:\n%s\n\n", preview(docs.TailoredResume, 2000))
	if docs.CoverLetter != "" {
		fmt.Fprintf(&sb, "Cover letter:\n%s\n\n", preview(docs.CoverLetter, 1500))
	}
	sb.WriteString("Use /compose to build the PDF, or /export to save all jobs to your sheet.")
	if listing.URL != "" {
		fmt.Fprintf(&sb, "\nApply here: %s", listing.URL)
	}
	return Reply{Text: sb.String()}
}

func (a *Agent) handleCompose(ctx context.Context, userID string, st *session.State) Reply {
	if st.Tailored == nil {
		return Reply{Text: "Nothing to compose yet. Use /customize <number> first."}
	}

	cand := candidateFromResume(st.Tailored.TailoredResume)
	result := a.Composer.Compose(cand, *st.Tailored)
	if ctx.Err() != nil {
		// The command was superseded; drop the composed output.
		return Reply{}
	}

	path := compose.OutputPath(a.OutputDir, userID, a.Composer.Now())
	if err := result.Doc.WriteFile(path); err != nil {
		log.Printf("[AGENT] compose write failed: %v", err)
		return Reply{Text: "Writing the PDF failed. Check the data directory and try /compose again."}
	}

	st.DocumentPath = path
	return Reply{
		Text:         fmt.Sprintf("Job application PDF composed (%d pages). Sending the file now.", result.PageCount),
		DocumentPath: path,
	}
}

func (a *Agent) handleExport(ctx context.Context, st *session.State) Reply {
	if len(st.Listings) == 0 {
		return Reply{Text: "No jobs to export. Use /search first."}
	}
	if a.Exporter == nil {
		return Reply{Text: "Google Sheets export is not configured (missing service account or spreadsheet ID)."}
	}

	res, err := a.Exporter.Export(ctx, st.Listings)
	if err != nil {
		log.Printf("[AGENT] export failed: %v", err)
		return Reply{Text: "Export failed: the spreadsheet backend is unavailable. Check sharing permissions and try /export again."}
	}
	return Reply{Text: fmt.Sprintf("Exported %d jobs to Google Sheets.\n%s\n\nRows were inserted at the top of the %q tab.", res.Count, res.URL, "Jobs")}
}

func (a *Agent) handleChat(ctx context.Context, userID string, st *session.State, message string) Reply {
	if a.LLM == nil {
		return Reply{Text: "Chat is not configured (missing LLM API key). Use /help for commands."}
	}

	contextBlock := llm.BuildChatContext(a.loadResume(userID, st), st.Listings)
	answer, err := llm.Advise(ctx, a.LLM, message, contextBlock)
	if err != nil {
		log.Printf("[AGENT] chat failed: %v", err)
		return Reply{Text: "I could not answer right now. Try again in a moment."}
	}
	return Reply{Text: answer}
}

// loadResume returns the session resume text, pulling the stored copy off
// disk the first time a session needs it.
func (a *Agent) loadResume(userID string, st *session.State) string {
	if st.ResumeText != "" {
		return st.ResumeText
	}
	if a.Resumes == nil {
		return ""
	}
	text, err := a.Resumes.Load(userID)
	if err != nil {
		if !errors.Is(err, resume.ErrNotFound) {
			log.Printf("[AGENT] loading resume for %s failed: %v", userID, err)
		}
		return ""
	}
	st.ResumeText = text
	return text
}

func preview(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
