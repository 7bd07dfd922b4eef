// Package session holds per-user conversation state. State lives in process
// memory only: a restart starts every conversation over, except for the stored
// resume text which the resume package persists on disk.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/chandan/job-agent/internal/types"
)

// State is everything the agent remembers about one user between commands.
type State struct {
	// Listings are the numbered search results the user can refer to.
	Listings []types.Listing

	// LastQuery and LastLocation reproduce the previous search for /more.
	LastQuery    string
	LastLocation string

	// Selected is the 1-based index into Listings chosen via /customize,
	// zero when nothing is selected.
	Selected int

	// ResumeText is the user's stored resume, loaded lazily from disk.
	ResumeText string

	// Tailored holds the most recent customization output, if any.
	Tailored *types.TailoredDocuments

	// DocumentPath is the last composed PDF, empty until /compose succeeds.
	DocumentPath string
}

// Listing returns the n-th result (1-based).
func (st *State) Listing(n int) (types.Listing, error) {
	if n < 1 || n > len(st.Listings) {
		return types.Listing{}, &RangeError{N: n, Max: len(st.Listings)}
	}
	return st.Listings[n-1], nil
}

// SelectedListing returns the listing chosen by the last /customize.
func (st *State) SelectedListing() (types.Listing, error) {
	return st.Listing(st.Selected)
}

// SeenURLs reports the posting URLs already shown to the user.
func (st *State) SeenURLs() map[string]bool {
	seen := make(map[string]bool, len(st.Listings))
	for _, l := range st.Listings {
		if l.URL != "" {
			seen[l.URL] = true
		}
	}
	return seen
}

// RangeError reports a listing number outside the current result set.
type RangeError struct {
	N   int
	Max int
}

func (e *RangeError) Error() string {
	if e.Max == 0 {
		return "no search results yet"
	}
	return fmt.Sprintf("job number %d is out of range (1-%d)", e.N, e.Max)
}

// Store keeps one State per user and serializes command execution per user.
// A command arriving while an earlier one for the same user is still running
// cancels the earlier one's context and waits for it to release the state.
type Store struct {
	mu    sync.Mutex
	users map[string]*userEntry
}

type userEntry struct {
	mu     sync.Mutex
	state  *State
	cancel context.CancelFunc
	gen    uint64
}

func NewStore() *Store {
	return &Store{users: make(map[string]*userEntry)}
}

func (s *Store) entry(userID string) *userEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[userID]
	if !ok {
		e = &userEntry{state: &State{}}
		s.users[userID] = e
	}
	return e
}

// Do runs fn with exclusive access to userID's state. Any command still
// running for the same user is canceled first; fn receives a context that a
// later command will cancel in turn. fn must not retain the *State beyond its
// return.
func (s *Store) Do(ctx context.Context, userID string, fn func(ctx context.Context, st *State) error) error {
	e := s.entry(userID)

	cctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.cancel = cancel
	e.gen++
	gen := e.gen
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		cancel()
		s.mu.Lock()
		// Only detach if no newer command has replaced us.
		if e.gen == gen {
			e.cancel = nil
		}
		s.mu.Unlock()
	}()

	if err := cctx.Err(); err != nil {
		return err
	}
	return fn(cctx, e.state)
}

// Peek returns a copy of userID's state without serializing against running
// commands. Intended for read-only surfaces like health and debug output.
func (s *Store) Peek(userID string) State {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	st := *e.state
	st.Listings = append([]types.Listing(nil), e.state.Listings...)
	return st
}

// Clear resets userID's state. The stored resume text survives because a new
// session should not force a re-upload.
func (s *Store) Clear(userID string) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	resume := e.state.ResumeText
	*e.state = State{ResumeText: resume}
}
