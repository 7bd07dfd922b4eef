package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/chandan/job-agent/internal/agent"
	"github.com/chandan/job-agent/internal/compose"
	"github.com/chandan/job-agent/internal/config"
	"github.com/chandan/job-agent/internal/export"
	"github.com/chandan/job-agent/internal/fetch"
	"github.com/chandan/job-agent/internal/llm"
	"github.com/chandan/job-agent/internal/resume"
	"github.com/chandan/job-agent/internal/search"
	"github.com/chandan/job-agent/internal/session"
)

// buildAgent wires an Agent from configuration. The returned cleanup closes
// the LLM client.
func buildAgent(ctx context.Context, cfg *config.Config) (*agent.Agent, func(), error) {
	if missing := cfg.Validate(); len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, nil, err
	}

	client, err := llm.NewGeminiClient(ctx, nil, cfg.GeminiAPIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Printf("[MAIN] closing LLM client: %v", err)
		}
	}

	primary := search.NewAggregator(search.NewJooble(cfg.JoobleAPIKey, cfg.JoobleAPIURL))

	extra := []search.Provider{search.NewRemotive()}
	if cfg.GoogleSearchKey != "" && cfg.GoogleSearchCX != "" {
		extra = append(extra, search.NewGoogleSearch(cfg.GoogleSearchKey, cfg.GoogleSearchCX))
	}

	fetcher := fetch.New()
	fetcher.UseBrowser = cfg.UseBrowser
	fetcher.Verbose = cfg.Verbose

	ag := &agent.Agent{
		Sessions:   session.NewStore(),
		Primary:    primary,
		Extra:      extra,
		LLM:        client,
		Tailor:     llm.NewTailor(client),
		Fetcher:    fetcher,
		Resumes:    resume.NewStore(cfg.DataDir),
		Composer:   compose.NewComposer(),
		OutputDir:  cfg.OutputDir(),
		MaxResults: cfg.MaxResults,

		DefaultLocation: cfg.DefaultLocation,
	}

	if cfg.ServiceAccountFile != "" && cfg.SpreadsheetID != "" {
		exporter, err := export.New(ctx, cfg.ServiceAccountFile, cfg.SpreadsheetID)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to create Sheets exporter: %w", err)
		}
		ag.Exporter = exporter
	} else {
		log.Println("[MAIN] Sheets export disabled (no service account or sheet ID)")
	}

	return ag, cleanup, nil
}
