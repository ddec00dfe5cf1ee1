package api

import "context"

// Metric names used in reports and accepted by the runner registry.
// These are a stable contract for downstream tooling (CI gates, dashboards).
const (
	MetricAnswerRelevancy  = "answer_relevancy"
	MetricFaithfulness     = "faithfulness"
	MetricContextPrecision = "context_precision"
)

// EvalSample is a single RAG evaluation sample
// Contexts preserve retrieval order; rank-sensitive metrics depend on it
type EvalSample struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Contexts    []string `json:"contexts"`
	GroundTruth string   `json:"ground_truth"`
}

// MetricResult represents the result of one metric evaluated on one sample
type MetricResult struct {
	// Name identifies the metric that produced this result
	Name string
	// Score is a value between 0 and 1, where 1 is the best possible score
	Score float64
	// Details contains additional information about the scoring process
	Details map[string]any
	// Err contains any error that occurred during scoring
	Err error
}

// Metric computes one score for one sample.
// Implementations must be safe for reuse across samples and must report
// failures through MetricResult.Err rather than panicking.
type Metric interface {
	// Name returns the metric name as it appears in reports
	Name() string
	// Score evaluates the sample and returns a result with a score in [0,1]
	Score(ctx context.Context, sample EvalSample) MetricResult
}

// Embedder generates vector embeddings for text
// This interface must be implemented by library consumers
// Gemini and OpenAI implementations are provided in subpackages
type Embedder interface {
	// Embed generates an embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float64, error)
	// EmbedBatch generates one embedding per input text, order-preserving
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// SampleReport groups the results of all metrics for one sample,
// in the order the metrics were requested
type SampleReport struct {
	Sample  EvalSample
	Results []MetricResult
}

// Result returns the result for the named metric, if the sample reported it.
func (r SampleReport) Result(name string) (MetricResult, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return MetricResult{}, false
}

// EvalReport aggregates sample reports for one evaluation run.
// Reports are read-only once produced; the summary is derived on demand.
type EvalReport struct {
	SampleReports []SampleReport
}

// Summary returns the mean score per metric across the run.
// A metric absent from some samples is averaged only over the samples
// that reported it; no reported score is ever dropped.
func (r *EvalReport) Summary() map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, sr := range r.SampleReports {
		for _, res := range sr.Results {
			sums[res.Name] += res.Score
			counts[res.Name]++
		}
	}
	summary := make(map[string]float64, len(sums))
	for name, sum := range sums {
		summary[name] = sum / float64(counts[name])
	}
	return summary
}

// FailureCounts returns, per metric, how many samples failed to score.
func (r *EvalReport) FailureCounts() map[string]int {
	counts := make(map[string]int)
	for _, sr := range r.SampleReports {
		for _, res := range sr.Results {
			if res.Err != nil {
				counts[res.Name]++
			}
		}
	}
	return counts
}
