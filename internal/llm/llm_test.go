package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docenhance/pipeline/internal/errs"
	"github.com/docenhance/pipeline/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStub_Deterministic(t *testing.T) {
	s := NewStub()
	a, err := s.Generate(context.Background(), Request{Prompt: "hello"})
	require.NoError(t, err)
	b, err := s.Generate(context.Background(), Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, a.Content, b.Content)
}

type failThenSucceed struct {
	calls int
}

func (f *failThenSucceed) Name() string { return "primary" }
func (f *failThenSucceed) Generate(_ context.Context, req Request) (Response, error) {
	f.calls++
	if f.calls < 2 {
		return Response{}, errors.New("transient")
	}
	return Response{Content: "ok", Provider: "primary"}, nil
}

func TestChain_RetriesOnceBeforeFallback(t *testing.T) {
	p := &failThenSucceed{}
	c := NewChain(p, WithBackoff(time.Millisecond, 2*time.Millisecond))
	resp, err := c.Generate(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 2, p.calls)
}

type alwaysFail struct{ name string }

func (a *alwaysFail) Name() string { return a.name }
func (a *alwaysFail) Generate(context.Context, Request) (Response, error) {
	return Response{}, errors.New("down")
}

func TestChain_FallsBackAfterRetryExhausted(t *testing.T) {
	primary := &alwaysFail{name: "primary"}
	fb := NewStub()
	c := NewChain(primary, WithFallbacks(fb), WithBackoff(time.Millisecond, 2*time.Millisecond))
	resp, err := c.Generate(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "stub", resp.Provider)
}

func TestChain_RateLimiterDeniesPastWaitWindow(t *testing.T) {
	b := retry.NewBucket(1, 1)
	b.TryAcquire() // exhaust the single token
	c := NewChain(NewStub(), WithRateLimiter(b, 20*time.Millisecond))
	_, err := c.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	var kindErr interface{ Kind() errs.Kind }
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, errs.KindRateLimited, kindErr.Kind())
}
