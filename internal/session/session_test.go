package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandan/job-agent/internal/types"
)

func TestStateListingRange(t *testing.T) {
	st := &State{Listings: []types.Listing{
		{Title: "Backend Engineer", Company: "Acme"},
		{Title: "SRE", Company: "Globex"},
	}}

	got, err := st.Listing(1)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.Title)

	_, err = st.Listing(3)
	var re *RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 3, re.N)
	assert.Equal(t, 2, re.Max)

	_, err = st.Listing(0)
	assert.Error(t, err)
}

func TestRangeErrorEmptyResults(t *testing.T) {
	st := &State{}
	_, err := st.Listing(1)
	require.Error(t, err)
	assert.Equal(t, "no search results yet", err.Error())
}

func TestSeenURLs(t *testing.T) {
	st := &State{Listings: []types.Listing{
		{URL: "https://a.example/1"},
		{URL: ""},
		{URL: "https://a.example/2"},
	}}
	seen := st.SeenURLs()
	assert.Len(t, seen, 2)
	assert.True(t, seen["https://a.example/1"])
}

func TestStoreStatePersistsAcrossCommands(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Do(ctx, "u1", func(_ context.Context, st *State) error {
		st.LastQuery = "golang"
		st.Listings = []types.Listing{{Title: "Dev"}}
		return nil
	})
	require.NoError(t, err)

	err = s.Do(ctx, "u1", func(_ context.Context, st *State) error {
		assert.Equal(t, "golang", st.LastQuery)
		assert.Len(t, st.Listings, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestStoreIsolatesUsers(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Do(ctx, "u1", func(_ context.Context, st *State) error {
		st.LastQuery = "golang"
		return nil
	}))
	require.NoError(t, s.Do(ctx, "u2", func(_ context.Context, st *State) error {
		assert.Empty(t, st.LastQuery)
		return nil
	}))
}

func TestStoreCancelsInFlightCommand(t *testing.T) {
	s := NewStore()

	started := make(chan struct{})
	canceled := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Do(context.Background(), "u1", func(ctx context.Context, _ *State) error {
			close(started)
			select {
			case <-ctx.Done():
				close(canceled)
				return ctx.Err()
			case <-time.After(5 * time.Second):
				t.Error("first command never canceled")
				return nil
			}
		})
	}()

	<-started
	require.NoError(t, s.Do(context.Background(), "u1", func(_ context.Context, st *State) error {
		st.LastQuery = "second"
		return nil
	}))

	select {
	case <-canceled:
	default:
		t.Fatal("expected first command's context to be canceled")
	}
	wg.Wait()

	got := s.Peek("u1")
	assert.Equal(t, "second", got.LastQuery)
}

func TestStoreSerializesPerUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(ctx, "u1", func(_ context.Context, st *State) error {
				st.Selected++
				return nil
			})
		}()
	}
	wg.Wait()

	got := s.Peek("u1")
	assert.Equal(t, n, got.Selected)
}

func TestClearKeepsResume(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Do(ctx, "u1", func(_ context.Context, st *State) error {
		st.ResumeText = "stored resume"
		st.Listings = []types.Listing{{Title: "Dev"}}
		st.Selected = 1
		return nil
	}))

	s.Clear("u1")

	got := s.Peek("u1")
	assert.Equal(t, "stored resume", got.ResumeText)
	assert.Empty(t, got.Listings)
	assert.Zero(t, got.Selected)
}

func TestPeekReturnsCopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Do(ctx, "u1", func(_ context.Context, st *State) error {
		st.Listings = []types.Listing{{Title: "Dev"}}
		return nil
	}))

	snap := s.Peek("u1")
	snap.Listings[0].Title = "mutated"

	got := s.Peek("u1")
	assert.Equal(t, "Dev", got.Listings[0].Title)
}
