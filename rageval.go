package rageval

import (
	"google.golang.org/genai"

	"github.com/datar-psa/rageval/api"
	"github.com/datar-psa/rageval/embedding"
	"github.com/datar-psa/rageval/gemini"
	"github.com/datar-psa/rageval/openai"
	"github.com/datar-psa/rageval/runner"
)

type EvalSample = api.EvalSample
type MetricResult = api.MetricResult
type SampleReport = api.SampleReport
type EvalReport = api.EvalReport

// Metrics wraps an embedder and exposes convenient constructors for the
// embedding-based metrics without passing the embedder each time.
type Metrics struct {
	embedder api.Embedder
}

// MetricsOptions configures Metrics creation
type MetricsOptions struct {
	embedder api.Embedder
}

// WithEmbedder sets the embedder used by the metrics
func WithEmbedder(embedder api.Embedder) func(*MetricsOptions) {
	return func(opts *MetricsOptions) {
		opts.embedder = embedder
	}
}

// NewMetrics creates a new Metrics wrapper using functional options.
func NewMetrics(opts ...func(*MetricsOptions)) *Metrics {
	options := &MetricsOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return &Metrics{embedder: options.embedder}
}

// GeminiOptions configures Gemini-backed Metrics creation
type GeminiOptions struct {
	genaiClient *genai.Client
	modelName   string
}

// WithGenaiClient sets the Gemini client for the metrics
func WithGenaiClient(client *genai.Client) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.genaiClient = client
	}
}

// WithModelName sets the embedding model name for the metrics
func WithModelName(modelName string) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.modelName = modelName
	}
}

// NewGeminiMetrics creates Metrics using a Gemini client and model name.
// Example model: "text-embedding-005".
func NewGeminiMetrics(opts ...func(*GeminiOptions)) *Metrics {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var metricOptions []func(*MetricsOptions)

	// Only add embedder if genaiClient and modelName are provided
	if options.genaiClient != nil && options.modelName != "" {
		metricOptions = append(metricOptions, WithEmbedder(gemini.NewEmbedder(options.genaiClient, options.modelName)))
	}

	return NewMetrics(metricOptions...)
}

// OpenAIConfig configures OpenAI-backed Metrics creation
type OpenAIConfig = openai.Config

// NewOpenAIMetrics creates Metrics using an OpenAI embedding model.
func NewOpenAIMetrics(cfg OpenAIConfig) (*Metrics, error) {
	embedder, err := openai.NewEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	return NewMetrics(WithEmbedder(embedder)), nil
}

type AnswerRelevancyOptions = embedding.AnswerRelevancyOptions

// AnswerRelevancy returns a metric that scores how directly the answer addresses the question.
func (m *Metrics) AnswerRelevancy(opts AnswerRelevancyOptions) api.Metric {
	return embedding.AnswerRelevancy(m.embedder, opts)
}

type FaithfulnessOptions = embedding.FaithfulnessOptions

// Faithfulness returns a metric that scores how well the answer is grounded in the contexts.
func (m *Metrics) Faithfulness(opts FaithfulnessOptions) api.Metric {
	return embedding.Faithfulness(m.embedder, opts)
}

type ContextPrecisionOptions = embedding.ContextPrecisionOptions

// ContextPrecision returns a metric that scores retrieval ranking quality.
func (m *Metrics) ContextPrecision(opts ContextPrecisionOptions) api.Metric {
	return embedding.ContextPrecision(m.embedder, opts)
}

// All returns the full metric set with default options.
func (m *Metrics) All() []api.Metric {
	return runner.DefaultMetrics(m.embedder)
}

// Runner re-exports for callers that only import the root package.
type Runner = runner.Runner
type RunnerOption = runner.Option

// NewRunner creates a runner for the given metrics.
func NewRunner(metrics []api.Metric, opts ...RunnerOption) (*Runner, error) {
	return runner.New(metrics, opts...)
}
