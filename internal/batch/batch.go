// Package batch implements C8: running the pipeline coordinator over
// many documents with bounded parallelism, preserving per-document
// isolation, input ordering, and an optional streaming variant,
// grounded on the teacher's workflow/v2 parallel-step worker-pool
// pattern.
package batch

import (
	"context"
	"sync"

	"github.com/docenhance/pipeline/internal/pipeline"
	"github.com/docenhance/pipeline/internal/report"
	"github.com/docenhance/pipeline/internal/settings"
)

// Coordinator is the subset of pipeline.Coordinator the executor needs.
type Coordinator interface {
	Enhance(ctx context.Context, input interface{}, s *settings.Settings) pipeline.Result
}

// Executor runs a Coordinator over many documents with bounded
// concurrency.
type Executor struct {
	coordinator     Coordinator
	maxParallelDocs int
	reporter        *report.Reporter
}

// Option configures an Executor.
type Option func(*Executor)

// WithReporter attaches a Reporter that gets one ParallelOp bump per
// batch call with more than one input, or one FastPathOp bump for a
// single input, matching C9's "parallel_ops"/"fast_path_ops" tallies.
func WithReporter(r *report.Reporter) Option { return func(e *Executor) { e.reporter = r } }

// NewExecutor builds an Executor bounding concurrency to maxParallelDocs
// (at least 1).
func NewExecutor(c Coordinator, maxParallelDocs int, opts ...Option) *Executor {
	if maxParallelDocs < 1 {
		maxParallelDocs = 1
	}
	e := &Executor{coordinator: c, maxParallelDocs: maxParallelDocs}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnhanceBatch schedules up to maxParallelDocs concurrent
// enhancements. Per-document failures never abort siblings; the
// returned slice preserves input order regardless of completion
// order, per §4.8.
func (e *Executor) EnhanceBatch(ctx context.Context, inputs []interface{}, s *settings.Settings) []pipeline.Result {
	results := make([]pipeline.Result, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	if e.reporter != nil && len(inputs) > 1 {
		e.reporter.RecordParallelOp()
	}
	if e.reporter != nil && len(inputs) == 1 {
		e.reporter.RecordFastPathOp()
	}

	sem := make(chan struct{}, e.maxParallelDocs)
	var wg sync.WaitGroup

	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input interface{}) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = e.coordinator.Enhance(ctx, input, s)
		}(i, input)
	}

	wg.Wait()
	return results
}

// StreamResult pairs a batch item's original index with its Result,
// so a consumer can reassociate completions arriving out of order.
type StreamResult struct {
	Index  int
	Result pipeline.Result
}

// EnhanceStream yields results as they complete, applying backpressure
// by bounding the in-flight set to maxParallelDocs. The returned
// channel is closed once all inputs have been processed or ctx is
// cancelled.
func (e *Executor) EnhanceStream(ctx context.Context, inputs []interface{}, s *settings.Settings) <-chan StreamResult {
	out := make(chan StreamResult)

	go func() {
		defer close(out)

		sem := make(chan struct{}, e.maxParallelDocs)
		var wg sync.WaitGroup

		for i, input := range inputs {
			select {
			case <-ctx.Done():
				return
			default:
			}

			wg.Add(1)
			go func(i int, input interface{}) {
				defer wg.Done()

				select {
				case sem <- struct{}{}:
				case <-ctx.Done():
					return
				}
				defer func() { <-sem }()

				result := e.coordinator.Enhance(ctx, input, s)

				select {
				case out <- StreamResult{Index: i, Result: result}:
				case <-ctx.Done():
				}
			}(i, input)
		}

		wg.Wait()
	}()

	return out
}
