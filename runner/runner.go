// Package runner orchestrates metric evaluation over datasets of samples.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/datar-psa/rageval/api"
	"github.com/datar-psa/rageval/embedding"
)

// Option configures a Runner
type Option func(*Runner)

// WithConcurrency sets how many samples are evaluated in parallel.
// Values below 2 keep the default synchronous behavior. The embedding
// provider must be safe for concurrent use when concurrency is enabled.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		r.concurrency = n
	}
}

// WithTimeout bounds each individual metric call. A call that exceeds the
// deadline degrades to a zero-score result for that metric only; the run
// continues.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// Runner evaluates a fixed set of metrics over samples and datasets.
// A Runner is safe for reuse across runs.
type Runner struct {
	metrics     []api.Metric
	concurrency int
	timeout     time.Duration
}

// New creates a Runner for the given metrics. An empty metric list or a nil
// metric is a programmer error and is rejected immediately.
func New(metrics []api.Metric, opts ...Option) (*Runner, error) {
	if len(metrics) == 0 {
		return nil, errors.New("at least one metric is required")
	}
	for i, m := range metrics {
		if m == nil {
			return nil, fmt.Errorf("metric at index %d is nil", i)
		}
	}

	r := &Runner{metrics: metrics, concurrency: 1}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// DefaultMetrics returns the full metric set with default options.
func DefaultMetrics(embedder api.Embedder) []api.Metric {
	return []api.Metric{
		embedding.AnswerRelevancy(embedder, embedding.AnswerRelevancyOptions{}),
		embedding.Faithfulness(embedder, embedding.FaithfulnessOptions{}),
		embedding.ContextPrecision(embedder, embedding.ContextPrecisionOptions{}),
	}
}

// MetricsFor resolves metric names to metrics with default options, in the
// requested order. No names means the full default set. An unregistered name
// fails fast with ErrUnknownMetric before any evaluation starts.
func MetricsFor(embedder api.Embedder, names ...string) ([]api.Metric, error) {
	if len(names) == 0 {
		return DefaultMetrics(embedder), nil
	}

	metrics := make([]api.Metric, 0, len(names))
	for _, name := range names {
		switch name {
		case api.MetricAnswerRelevancy:
			metrics = append(metrics, embedding.AnswerRelevancy(embedder, embedding.AnswerRelevancyOptions{}))
		case api.MetricFaithfulness:
			metrics = append(metrics, embedding.Faithfulness(embedder, embedding.FaithfulnessOptions{}))
		case api.MetricContextPrecision:
			metrics = append(metrics, embedding.ContextPrecision(embedder, embedding.ContextPrecisionOptions{}))
		default:
			return nil, fmt.Errorf("%w: %q", api.ErrUnknownMetric, name)
		}
	}
	return metrics, nil
}

// EvaluateSample runs every metric against the sample, one result per metric
// in the order the metrics were given. Metric failures are recorded in the
// result, never propagated.
func (r *Runner) EvaluateSample(ctx context.Context, sample api.EvalSample) api.SampleReport {
	report := api.SampleReport{
		Sample:  sample,
		Results: make([]api.MetricResult, 0, len(r.metrics)),
	}
	for _, m := range r.metrics {
		report.Results = append(report.Results, r.scoreOne(ctx, m, sample))
	}
	return report
}

func (r *Runner) scoreOne(ctx context.Context, m api.Metric, sample api.EvalSample) api.MetricResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	result := m.Score(ctx, sample)
	if result.Name == "" {
		result.Name = m.Name()
	}
	if result.Err != nil {
		result.Score = 0
		if result.Details == nil {
			result.Details = make(map[string]any)
		}
		result.Details["error"] = errorKind(result.Err)
	}
	return result
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, api.ErrInvalidSample):
		return "invalid_sample"
	case errors.Is(err, api.ErrEmbeddingFailed), errors.Is(err, context.DeadlineExceeded):
		return "embedding_failure"
	default:
		return "metric_failure"
	}
}

// EvaluateDataset evaluates every sample in input order and returns the
// aggregated report. With concurrency enabled, samples are scored on a worker
// pool but the report order still matches the input; one sample's failure
// never cancels the others.
func (r *Runner) EvaluateDataset(ctx context.Context, samples []api.EvalSample) *api.EvalReport {
	reports := make([]api.SampleReport, len(samples))

	if r.concurrency <= 1 {
		for i, sample := range samples {
			reports[i] = r.EvaluateSample(ctx, sample)
		}
		return &api.EvalReport{SampleReports: reports}
	}

	// Plain errgroup as a bounded worker pool: workers never return errors,
	// failures are already captured inside each report slot.
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, sample := range samples {
		g.Go(func() error {
			reports[i] = r.EvaluateSample(ctx, sample)
			return nil
		})
	}
	_ = g.Wait()

	return &api.EvalReport{SampleReports: reports}
}
