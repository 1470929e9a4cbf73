package llm

import (
	"context"
	"time"

	"github.com/docenhance/pipeline/internal/errs"
	"github.com/docenhance/pipeline/internal/retry"
)

// Chain wraps a primary Capability with an ordered list of fallback
// Capabilities and a per-provider rate limiter, implementing §6's
// "may fail with a transient error (retry allowed once with
// exponential backoff to a fallback provider if configured)".
type Chain struct {
	primary   Capability
	fallbacks []Capability
	limiter   *retry.Bucket
	wait      time.Duration
	base      time.Duration
	max       time.Duration
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithFallbacks appends ordered fallback capabilities, tried in
// sequence after the primary's one retry is exhausted.
func WithFallbacks(caps ...Capability) ChainOption {
	return func(c *Chain) { c.fallbacks = append(c.fallbacks, caps...) }
}

// WithRateLimiter attaches a token bucket (capacity = rate_limit_per_minute
// per §5) and the wait window strategies block for before failing with
// RateLimited.
func WithRateLimiter(b *retry.Bucket, wait time.Duration) ChainOption {
	return func(c *Chain) {
		c.limiter = b
		c.wait = wait
	}
}

// WithBackoff overrides the base/max exponential backoff durations
// used for the single primary retry. Defaults to 200ms/5s.
func WithBackoff(base, max time.Duration) ChainOption {
	return func(c *Chain) {
		c.base = base
		c.max = max
	}
}

// NewChain builds a Chain around primary.
func NewChain(primary Capability, opts ...ChainOption) *Chain {
	c := &Chain{
		primary: primary,
		base:    200 * time.Millisecond,
		max:     5 * time.Second,
		wait:    2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Chain) Name() string { return c.primary.Name() }

// Generate tries the primary once, retries it once after a backoff
// delay, then walks the fallback list in order. Any rate-limiter
// exhaustion past the wait window surfaces as errs.RateLimited,
// treated by the strategy layer like any other contained failure.
func (c *Chain) Generate(ctx context.Context, req Request) (Response, error) {
	if c.limiter != nil && !c.limiter.Acquire(ctx, c.wait) {
		return Response{}, errs.RateLimited(c.primary.Name())
	}

	resp, err := c.primary.Generate(ctx, req)
	if err == nil {
		return resp, nil
	}

	if sleepErr := retry.Sleep(ctx, retry.Backoff(0, c.base, c.max)); sleepErr != nil {
		return Response{}, sleepErr
	}
	resp, err = c.primary.Generate(ctx, req)
	if err == nil {
		return resp, nil
	}

	for _, fb := range c.fallbacks {
		resp, ferr := fb.Generate(ctx, req)
		if ferr == nil {
			return resp, nil
		}
		err = ferr
	}

	return Response{}, err
}
