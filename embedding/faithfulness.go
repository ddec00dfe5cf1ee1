package embedding

import (
	"context"
	"fmt"

	"github.com/datar-psa/rageval/api"
)

// FaithfulnessOptions configures the Faithfulness metric
type FaithfulnessOptions struct {
	// Splitter overrides the default punctuation-based sentence splitter
	Splitter SentenceSplitter
	// Strict reports missing contexts or an empty answer as ErrInvalidSample
	Strict bool
}

// Faithfulness returns a metric that measures how well the answer is grounded
// in the retrieved contexts. Each answer sentence is scored by its best cosine
// similarity against any context; the sample score is the mean over sentences.
func Faithfulness(embedder api.Embedder, opts FaithfulnessOptions) api.Metric {
	return &faithfulnessMetric{embedder: embedder, opts: opts}
}

type faithfulnessMetric struct {
	embedder api.Embedder
	opts     FaithfulnessOptions
}

func (m *faithfulnessMetric) Name() string { return api.MetricFaithfulness }

func (m *faithfulnessMetric) Score(ctx context.Context, sample api.EvalSample) api.MetricResult {
	result := api.MetricResult{
		Name:    api.MetricFaithfulness,
		Details: make(map[string]any),
	}

	if len(sample.Contexts) == 0 {
		return degrade(result, m.opts.Strict, "no contexts")
	}

	if m.embedder == nil {
		result.Err = fmt.Errorf("embedder is required")
		return result
	}

	split := m.opts.Splitter
	if split == nil {
		split = defaultSplitter
	}

	sentences, err := split(ctx, sample.Answer)
	if err != nil {
		result.Err = fmt.Errorf("split sentences: %w", err)
		return result
	}
	if len(sentences) == 0 {
		result.Details["no_sentences"] = true
		return degrade(result, m.opts.Strict, "empty answer")
	}

	contextEmbeds, err := m.embedder.EmbedBatch(ctx, sample.Contexts)
	if err != nil {
		result.Err = fmt.Errorf("%w: embed contexts: %v", api.ErrEmbeddingFailed, err)
		return result
	}

	sentenceEmbeds, err := m.embedder.EmbedBatch(ctx, sentences)
	if err != nil {
		result.Err = fmt.Errorf("%w: embed sentences: %v", api.ErrEmbeddingFailed, err)
		return result
	}

	sentenceScores := make([]float64, len(sentences))
	matchedContexts := make([]int, len(sentences))
	var sum float64
	for i, sentenceEmbed := range sentenceEmbeds {
		best, bestIndex := 0.0, 0
		for j, contextEmbed := range contextEmbeds {
			sim := cosineSimilarity(sentenceEmbed, contextEmbed)
			if j == 0 || sim > best {
				best, bestIndex = sim, j
			}
		}
		// The best-supporting context keeps its index even when the raw
		// similarity is negative; only the score is floored.
		sentenceScores[i] = clamp01(best)
		matchedContexts[i] = bestIndex
		sum += sentenceScores[i]
	}

	result.Score = clamp01(sum / float64(len(sentences)))
	result.Details["sentences"] = sentences
	result.Details["sentence_scores"] = sentenceScores
	result.Details["matched_contexts"] = matchedContexts

	return result
}
