// Package resume turns uploaded resume files into plain text and keeps one
// stored resume per user under the data directory. The stored text is the
// only state that survives a restart.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNotFound is returned when a user has no stored resume.
var ErrNotFound = errors.New("no resume stored")

// ParseError reports that an uploaded file could not be turned into text.
type ParseError struct {
	Filename string
	Message  string
	Cause    error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse resume %s: %s: %v", e.Filename, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to parse resume %s: %s", e.Filename, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Parse extracts plain text from an uploaded resume. PDF files are read
// through their text layer; plain text files pass through unchanged.
func Parse(data []byte, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDFText(data, filename)
	case ".txt":
		return string(data), nil
	default:
		return "", &ParseError{
			Filename: filename,
			Message:  "unsupported file format, upload PDF or TXT",
		}
	}
}

// extractPDFText joins the text layers of every page. Scanned PDFs without a
// text layer yield an error rather than an empty resume.
func extractPDFText(data []byte, filename string) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ParseError{Filename: filename, Message: "unreadable PDF", Cause: err}
	}

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", &ParseError{Filename: filename, Message: "PDF has no extractable text layer"}
	}
	return strings.Join(parts, "\n"), nil
}

// Store persists one resume text file per user.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(userID string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("resume_%s.txt", userID))
}

// Save writes the user's resume text, replacing any previous one.
func (s *Store) Save(userID, text string) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create resume dir: %w", err)
	}
	if err := os.WriteFile(s.path(userID), []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to save resume: %w", err)
	}
	return nil
}

// Load reads the user's stored resume text.
func (s *Store) Load(userID string) (string, error) {
	data, err := os.ReadFile(s.path(userID))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load resume: %w", err)
	}
	return string(data), nil
}
