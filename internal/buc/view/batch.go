package view

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"casebridge/internal/buc/metrics"
	"casebridge/internal/buc/ports"
	"casebridge/internal/platform/tracing"
	dErrors "casebridge/pkg/domain-errors"
	"casebridge/pkg/requestcontext"
)

const defaultWorkers = 4

// BatchBuilder fetches and builds many cases on a bounded worker pool.
// When every worker is busy the next item runs on the caller goroutine, so
// a batch never queues without bound and never drops an item.
type BatchBuilder struct {
	fetcher ports.CaseFetcher
	builder *Builder
	workers int
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// BatchOption configures a BatchBuilder.
type BatchOption func(*BatchBuilder)

// WithWorkers sets the pool size. Values below 1 are ignored.
func WithWorkers(n int) BatchOption {
	return func(b *BatchBuilder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithMetrics attaches metrics.
func WithMetrics(m *metrics.Metrics) BatchOption {
	return func(b *BatchBuilder) {
		b.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBatchBuilder creates a BatchBuilder.
func NewBatchBuilder(fetcher ports.CaseFetcher, builder *Builder, opts ...BatchOption) *BatchBuilder {
	b := &BatchBuilder{
		fetcher: fetcher,
		builder: builder,
		workers: defaultWorkers,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// One fetches a single case with the caller's identity and builds its view.
// Every failure, including a panic while building, becomes a failed outcome.
func (b *BatchBuilder) One(ctx context.Context, caseID string) Outcome {
	start := time.Now()
	out := b.one(ctx, caseID)
	b.metrics.ObserveViewBuild(out.Err() == nil, time.Since(start))
	if err := out.Err(); err != nil {
		b.logger.InfoContext(ctx, "case view failed",
			"request_id", requestcontext.RequestID(ctx),
			"case_id", caseID,
			"code", dErrors.CodeOf(err),
			"error", err,
		)
	}
	return out
}

func (b *BatchBuilder) one(ctx context.Context, caseID string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Failed(caseID, dErrors.Wrap(fmt.Errorf("panic: %v", r), dErrors.CodeInternal, "case view could not be built"))
		}
	}()

	c, err := b.fetcher.FetchCase(ctx, caseID, ports.AsCaller)
	if err != nil {
		return Failed(caseID, err)
	}
	return b.builder.Build(c)
}

// Build returns one outcome per case id, sorted by start date descending.
// Cases without a start date (including failures) come last in input order.
func (b *BatchBuilder) Build(ctx context.Context, caseIDs []string) []Outcome {
	ctx, span := tracing.StartSpan(ctx, "case.views.batch")
	defer span.End()
	span.SetAttributes(
		attribute.Int("case.count", len(caseIDs)),
		attribute.Int("pool.workers", b.workers),
	)

	results := make([]Outcome, len(caseIDs))

	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, id := range caseIDs {
		task := func() error {
			results[i] = b.One(ctx, id)
			return nil
		}
		if !g.TryGo(task) {
			b.metrics.IncBatchOverflow()
			_ = task()
		}
	}
	_ = g.Wait()

	sortByStartDate(results)
	return results
}

func sortByStartDate(results []Outcome) {
	sort.SliceStable(results, func(i, j int) bool {
		a, aok := results[i].startDate()
		c, cok := results[j].startDate()
		switch {
		case aok && cok:
			return a > c
		default:
			return aok && !cok
		}
	})
}
