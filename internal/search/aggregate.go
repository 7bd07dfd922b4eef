package search

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/chandan/job-agent/internal/types"
)

// Provider is one job board backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]types.Listing, error)
}

// ResultSet is the merged output of one aggregated search.
type ResultSet struct {
	Listings []types.Listing
	// Failed names the providers whose calls errored. Their results are
	// simply absent; a partial result set is still a result set.
	Failed []string
}

// Aggregator fans a query out to all configured providers, waits for every
// call to finish, and merges the results. Configuration order is authority
// order: when two providers return the same job, the earlier-configured
// provider's record wins regardless of which call finished first.
type Aggregator struct {
	providers []Provider
}

func NewAggregator(providers ...Provider) *Aggregator {
	return &Aggregator{providers: providers}
}

// Providers returns the configured providers in authority order.
func (a *Aggregator) Providers() []Provider {
	return a.providers
}

// Search runs the query on every provider concurrently and merges. It returns
// an error only when no provider is configured or every provider failed.
func (a *Aggregator) Search(ctx context.Context, q Query) (*ResultSet, error) {
	if len(a.providers) == 0 {
		return nil, &Error{Provider: "aggregator", Message: "no providers configured"}
	}

	results := make([][]types.Listing, len(a.providers))
	errs := make([]error, len(a.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range a.providers {
		g.Go(func() error {
			listings, err := p.Search(gctx, q)
			if err != nil {
				// A provider failure degrades the result set, it
				// does not abort the other calls.
				log.Printf("[SEARCH] provider %s failed: %v", p.Name(), err)
				errs[i] = err
				return nil
			}
			for j := range listings {
				listings[j].ProviderRank = i
			}
			results[i] = listings
			return nil
		})
	}
	_ = g.Wait()

	set := &ResultSet{}
	seen := make(map[string]int) // dedupe key -> index into set.Listings
	for i := range a.providers {
		if errs[i] != nil {
			set.Failed = append(set.Failed, a.providers[i].Name())
			continue
		}
		for _, l := range results[i] {
			key := l.DedupeKey()
			if at, dup := seen[key]; dup {
				if l.ProviderRank < set.Listings[at].ProviderRank {
					set.Listings[at] = l
				}
				continue
			}
			seen[key] = len(set.Listings)
			set.Listings = append(set.Listings, l)
		}
	}

	if len(set.Failed) == len(a.providers) {
		return nil, &Error{Provider: "aggregator", Message: "all providers failed", Cause: errs[0]}
	}

	if q.Limit > 0 && len(set.Listings) > q.Limit {
		set.Listings = set.Listings[:q.Limit]
	}
	return set, nil
}
