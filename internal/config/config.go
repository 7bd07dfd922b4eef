// Package config provides environment-driven configuration for the job agent.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds every external credential and tunable the agent consumes.
// Values come from the environment; main loads a .env file first if present.
type Config struct {
	// Gemini LLM
	GeminiAPIKey string

	// Jooble job search
	JoobleAPIKey string
	JoobleAPIURL string

	// Google Custom Search (secondary provider for /more)
	GoogleSearchKey string
	GoogleSearchCX  string

	// Google Sheets export
	ServiceAccountFile string
	SpreadsheetID      string

	// Search preferences
	DefaultLocation string
	MaxResults      int

	// Paths
	DataDir string

	// Behavior
	UseBrowser bool
	Verbose    bool
}

// Load reads configuration from the environment, applying defaults for
// optional values.
func Load() *Config {
	cfg := &Config{
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		JoobleAPIKey:       os.Getenv("JOOBLE_API_KEY"),
		JoobleAPIURL:       envOr("JOOBLE_API_URL", "https://jooble.org/api/"),
		GoogleSearchKey:    os.Getenv("GOOGLE_SEARCH_KEY"),
		GoogleSearchCX:     os.Getenv("GOOGLE_SEARCH_CX"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		SpreadsheetID:      os.Getenv("GOOGLE_SHEET_ID"),
		DefaultLocation:    envOr("DEFAULT_LOCATION", "remote"),
		MaxResults:         envIntOr("MAX_RESULTS", 10),
		DataDir:            envOr("DATA_DIR", "data"),
	}

	if v := os.Getenv("USE_BROWSER"); v != "" {
		cfg.UseBrowser, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("VERBOSE"); v != "" {
		cfg.Verbose, _ = strconv.ParseBool(v)
	}

	return cfg
}

// Validate returns the names of required keys that are missing.
// Export and secondary-search keys are optional: the corresponding steps
// degrade with a user-visible message instead of failing at startup.
func (c *Config) Validate() []string {
	var missing []string
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.JoobleAPIKey == "" {
		missing = append(missing, "JOOBLE_API_KEY")
	}
	return missing
}

// EnsureDirs creates the data directory tree used for stored resumes and
// composed documents.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.DataDir, c.OutputDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// OutputDir is where composed documents are written.
func (c *Config) OutputDir() string {
	return filepath.Join(c.DataDir, "outputs")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
