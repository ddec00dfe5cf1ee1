package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/datar-psa/rageval/api"
)

// AnswerRelevancyOptions configures the AnswerRelevancy metric
type AnswerRelevancyOptions struct {
	// Strict reports a missing question or answer as ErrInvalidSample
	// instead of silently returning the degenerate zero score
	Strict bool
}

// AnswerRelevancy returns a metric that measures how directly the answer
// addresses the question. It computes cosine similarity between the question
// and answer embeddings, clamped to [0,1].
func AnswerRelevancy(embedder api.Embedder, opts AnswerRelevancyOptions) api.Metric {
	return &answerRelevancyMetric{embedder: embedder, opts: opts}
}

type answerRelevancyMetric struct {
	embedder api.Embedder
	opts     AnswerRelevancyOptions
}

func (m *answerRelevancyMetric) Name() string { return api.MetricAnswerRelevancy }

func (m *answerRelevancyMetric) Score(ctx context.Context, sample api.EvalSample) api.MetricResult {
	result := api.MetricResult{
		Name:    api.MetricAnswerRelevancy,
		Details: make(map[string]any),
	}

	if strings.TrimSpace(sample.Question) == "" || strings.TrimSpace(sample.Answer) == "" {
		return degrade(result, m.opts.Strict, "empty question or answer")
	}

	if m.embedder == nil {
		result.Err = fmt.Errorf("embedder is required")
		return result
	}

	questionEmbed, err := m.embedder.Embed(ctx, sample.Question)
	if err != nil {
		result.Err = fmt.Errorf("%w: embed question: %v", api.ErrEmbeddingFailed, err)
		return result
	}

	answerEmbed, err := m.embedder.Embed(ctx, sample.Answer)
	if err != nil {
		result.Err = fmt.Errorf("%w: embed answer: %v", api.ErrEmbeddingFailed, err)
		return result
	}

	similarity := cosineSimilarity(questionEmbed, answerEmbed)

	result.Score = clamp01(similarity)
	result.Details["cosine_similarity"] = similarity
	result.Details["embedding_dim"] = len(questionEmbed)

	return result
}
