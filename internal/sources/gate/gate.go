// Package gate puts a rate limiter and retry policy in front of a PageFetcher.
package gate

import (
	"context"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
	"github.com/custodia-labs/ballotwatch/internal/logger"
	"github.com/custodia-labs/ballotwatch/internal/sources/ratelimit"
	"github.com/custodia-labs/ballotwatch/internal/sources/retry"
)

// Ensure Fetcher implements the interface.
var _ driven.PageFetcher = (*Fetcher)(nil)

// Fetcher is a PageFetcher whose every attempt waits on a limiter.
// Transient failures are retried per the policy.
type Fetcher struct {
	source  string
	next    driven.PageFetcher
	limiter *ratelimit.Limiter
	policy  retry.Policy
}

// New wraps next for the named source.
func New(source string, next driven.PageFetcher, limiter *ratelimit.Limiter, policy retry.Policy) *Fetcher {
	if policy.Retryable == nil {
		policy.Retryable = driven.IsTransient
	}
	return &Fetcher{
		source:  source,
		next:    next,
		limiter: limiter,
		policy:  policy,
	}
}

// ForSource builds the standard gate for a source: its own limiter at the
// configured rate and the default retry policy.
func ForSource(src domain.SourceSettings, discovery domain.DiscoverySettings, next driven.PageFetcher) *Fetcher {
	return New(src.Name, next, ratelimit.New(discovery.RateFor(src)), retry.DefaultPolicy(driven.IsTransient))
}

// Fetch waits for the limiter then fetches url, retrying transient errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.Page, error) {
	attempt := 0
	return retry.Do(ctx, f.policy, func(ctx context.Context) (*domain.Page, error) {
		attempt++
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		page, err := f.next.Fetch(ctx, url)
		if err != nil && driven.IsTransient(err) {
			logger.Debug("%s: attempt %d for %s failed: %v", f.source, attempt, url, err)
		}
		return page, err
	})
}
