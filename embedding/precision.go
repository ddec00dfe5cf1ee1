package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/datar-psa/rageval/api"
)

// DefaultRelevanceThreshold is the minimum cosine similarity between a context
// and the reference text for the context to count as relevant.
const DefaultRelevanceThreshold = 0.5

// ContextPrecisionOptions configures the ContextPrecision metric
type ContextPrecisionOptions struct {
	// Threshold overrides DefaultRelevanceThreshold. Nil means the default;
	// an explicit zero or negative threshold is honored.
	Threshold *float64
	// Strict reports missing contexts or reference text as ErrInvalidSample
	Strict bool
}

// ContextPrecision returns a metric that measures retrieval ranking quality.
// Contexts are marked relevant by thresholded cosine similarity against the
// ground truth (falling back to the answer), and the score is the Average
// Precision of the relevance sequence in retrieval order.
func ContextPrecision(embedder api.Embedder, opts ContextPrecisionOptions) api.Metric {
	return &contextPrecisionMetric{embedder: embedder, opts: opts}
}

type contextPrecisionMetric struct {
	embedder api.Embedder
	opts     ContextPrecisionOptions
}

func (m *contextPrecisionMetric) Name() string { return api.MetricContextPrecision }

func (m *contextPrecisionMetric) Score(ctx context.Context, sample api.EvalSample) api.MetricResult {
	result := api.MetricResult{
		Name:    api.MetricContextPrecision,
		Details: make(map[string]any),
	}

	if len(sample.Contexts) == 0 {
		return degrade(result, m.opts.Strict, "no contexts")
	}

	reference := sample.GroundTruth
	if strings.TrimSpace(reference) == "" {
		reference = sample.Answer
	}
	if strings.TrimSpace(reference) == "" {
		return degrade(result, m.opts.Strict, "no ground truth or answer")
	}

	if m.embedder == nil {
		result.Err = fmt.Errorf("embedder is required")
		return result
	}

	referenceEmbed, err := m.embedder.Embed(ctx, reference)
	if err != nil {
		result.Err = fmt.Errorf("%w: embed reference: %v", api.ErrEmbeddingFailed, err)
		return result
	}

	contextEmbeds, err := m.embedder.EmbedBatch(ctx, sample.Contexts)
	if err != nil {
		result.Err = fmt.Errorf("%w: embed contexts: %v", api.ErrEmbeddingFailed, err)
		return result
	}

	threshold := DefaultRelevanceThreshold
	if m.opts.Threshold != nil {
		threshold = *m.opts.Threshold
	}

	similarities := make([]float64, len(contextEmbeds))
	relevance := make([]bool, len(contextEmbeds))
	relevantCount := 0
	apSum := 0.0
	for i, contextEmbed := range contextEmbeds {
		similarities[i] = cosineSimilarity(referenceEmbed, contextEmbed)
		if similarities[i] >= threshold {
			relevance[i] = true
			relevantCount++
			apSum += float64(relevantCount) / float64(i+1)
		}
	}

	// AP = mean of precision@i over relevant ranks; no relevant contexts
	// yields 0, not an error.
	if relevantCount > 0 {
		result.Score = clamp01(apSum / float64(relevantCount))
	}
	result.Details["similarities"] = similarities
	result.Details["relevance"] = relevance
	result.Details["threshold"] = threshold

	return result
}
