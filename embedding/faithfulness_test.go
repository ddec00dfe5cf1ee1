package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/datar-psa/rageval/api"
)

func TestFaithfulness(t *testing.T) {
	ctx := context.Background()

	embeddings := map[string][]float64{
		// contexts
		"Paris is the capital of France.": {1.0, 0.0, 0.0},
		"Paris is on the river Seine.":    {0.0, 1.0, 0.0},
		// answer sentences
		"The capital is Paris.": {1.0, 0.0, 0.0},
		"It sits on the Seine.": {0.0, 1.0, 0.0},
		"Moons orbit planets.":  {0.0, 0.0, 1.0},
		"Opposite of context.":  {-1.0, 0.0, 0.0},
	}

	tests := []struct {
		name        string
		sample      api.EvalSample
		opts        FaithfulnessOptions
		embedErr    error
		wantErr     error
		wantScore   float64
		epsilon     float64
		wantMatched []int
		wantReason  string
		noSentences bool
	}{
		{
			name: "fully grounded answer",
			sample: api.EvalSample{
				Question: "What is the capital of France?",
				Answer:   "The capital is Paris. It sits on the Seine.",
				Contexts: []string{"Paris is the capital of France.", "Paris is on the river Seine."},
			},
			wantScore:   1.0,
			epsilon:     0.001,
			wantMatched: []int{0, 1},
		},
		{
			name: "ungrounded sentence drags the mean down",
			sample: api.EvalSample{
				Question: "What is the capital of France?",
				Answer:   "The capital is Paris. Moons orbit planets.",
				Contexts: []string{"Paris is the capital of France.", "Paris is on the river Seine."},
			},
			wantScore:   0.5,
			epsilon:     0.001,
			wantMatched: []int{0, 0},
		},
		{
			name: "negative similarity floors at zero",
			sample: api.EvalSample{
				Question: "q",
				Answer:   "Opposite of context.",
				Contexts: []string{"Paris is the capital of France."},
			},
			wantScore:   0.0,
			epsilon:     0.001,
			wantMatched: []int{0},
		},
		{
			name: "no contexts degrades",
			sample: api.EvalSample{
				Question: "q",
				Answer:   "The capital is Paris.",
				Contexts: nil,
			},
			wantScore:  0.0,
			wantReason: "no contexts",
		},
		{
			name: "empty answer sets no_sentences",
			sample: api.EvalSample{
				Question: "q",
				Answer:   "   ",
				Contexts: []string{"Paris is the capital of France."},
			},
			wantScore:   0.0,
			wantReason:  "empty answer",
			noSentences: true,
		},
		{
			name: "strict mode flags missing contexts",
			opts: FaithfulnessOptions{Strict: true},
			sample: api.EvalSample{
				Question: "q",
				Answer:   "The capital is Paris.",
			},
			wantErr:    api.ErrInvalidSample,
			wantScore:  0.0,
			wantReason: "no contexts",
		},
		{
			name:     "embedder error",
			embedErr: fmt.Errorf("API error"),
			sample: api.EvalSample{
				Question: "q",
				Answer:   "The capital is Paris.",
				Contexts: []string{"Paris is the capital of France."},
			},
			wantErr:   api.ErrEmbeddingFailed,
			wantScore: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockEmbed := &mockEmbedder{embeddings: embeddings, err: tt.embedErr}

			metric := Faithfulness(mockEmbed, tt.opts)
			result := metric.Score(ctx, tt.sample)

			if tt.wantErr != nil {
				if !errors.Is(result.Err, tt.wantErr) {
					t.Errorf("Faithfulness.Score() error = %v, wantErr %v", result.Err, tt.wantErr)
				}
			} else if result.Err != nil {
				t.Errorf("Faithfulness.Score() unexpected error = %v", result.Err)
			}

			if math.Abs(result.Score-tt.wantScore) > math.Max(tt.epsilon, 1e-9) {
				t.Errorf("Faithfulness.Score() score = %v, want %v", result.Score, tt.wantScore)
			}

			if result.Name != api.MetricFaithfulness {
				t.Errorf("Faithfulness.Score() name = %v, want %q", result.Name, api.MetricFaithfulness)
			}

			if tt.wantMatched != nil {
				matched, ok := result.Details["matched_contexts"].([]int)
				if !ok || !reflect.DeepEqual(matched, tt.wantMatched) {
					t.Errorf("Faithfulness.Score() matched_contexts = %v, want %v", result.Details["matched_contexts"], tt.wantMatched)
				}
			}

			if tt.wantReason != "" && result.Details["reason"] != tt.wantReason {
				t.Errorf("Faithfulness.Score() reason = %v, want %q", result.Details["reason"], tt.wantReason)
			}

			if tt.noSentences && result.Details["no_sentences"] != true {
				t.Errorf("Faithfulness.Score() no_sentences = %v, want true", result.Details["no_sentences"])
			}
		})
	}
}

func TestFaithfulness_PerSentenceScores(t *testing.T) {
	ctx := context.Background()

	// One sentence aligned with context 0, one at cos 0.8 to context 1.
	mockEmbed := &mockEmbedder{embeddings: map[string][]float64{
		"c0":               {1.0, 0.0, 0.0},
		"c1":               {0.0, 1.0, 0.0},
		"First sentence.":  {1.0, 0.0, 0.0},
		"Second sentence.": {0.6, 0.8, 0.0},
	}}

	result := Faithfulness(mockEmbed, FaithfulnessOptions{}).Score(ctx, api.EvalSample{
		Question: "q",
		Answer:   "First sentence. Second sentence.",
		Contexts: []string{"c0", "c1"},
	})

	if result.Err != nil {
		t.Fatalf("Faithfulness.Score() unexpected error = %v", result.Err)
	}

	scores, ok := result.Details["sentence_scores"].([]float64)
	if !ok || len(scores) != 2 {
		t.Fatalf("Faithfulness.Score() sentence_scores = %v, want two entries", result.Details["sentence_scores"])
	}
	if math.Abs(scores[0]-1.0) > 1e-9 {
		t.Errorf("sentence_scores[0] = %v, want 1.0", scores[0])
	}
	if math.Abs(scores[1]-0.8) > 1e-9 {
		t.Errorf("sentence_scores[1] = %v, want 0.8", scores[1])
	}
	if math.Abs(result.Score-0.9) > 1e-9 {
		t.Errorf("Faithfulness.Score() score = %v, want 0.9", result.Score)
	}
}

func TestFaithfulness_CustomSplitter(t *testing.T) {
	ctx := context.Background()

	splitter := func(_ context.Context, text string) ([]string, error) {
		return []string{text}, nil
	}

	mockEmbed := &mockEmbedder{embeddings: map[string][]float64{
		"one blob of text": {1.0, 0.0, 0.0},
		"c0":               {1.0, 0.0, 0.0},
	}}

	result := Faithfulness(mockEmbed, FaithfulnessOptions{Splitter: splitter}).Score(ctx, api.EvalSample{
		Question: "q",
		Answer:   "one blob of text",
		Contexts: []string{"c0"},
	})

	if result.Err != nil {
		t.Fatalf("Faithfulness.Score() unexpected error = %v", result.Err)
	}
	sentences, ok := result.Details["sentences"].([]string)
	if !ok || len(sentences) != 1 {
		t.Errorf("Faithfulness.Score() sentences = %v, want the single unsplit blob", result.Details["sentences"])
	}
}

func TestFaithfulness_SplitterError(t *testing.T) {
	ctx := context.Background()

	splitter := func(_ context.Context, _ string) ([]string, error) {
		return nil, fmt.Errorf("segmentation service down")
	}

	result := Faithfulness(&mockEmbedder{}, FaithfulnessOptions{Splitter: splitter}).Score(ctx, api.EvalSample{
		Question: "q",
		Answer:   "anything",
		Contexts: []string{"c0"},
	})

	if result.Err == nil {
		t.Error("Faithfulness.Score() expected error from failing splitter")
	}
	if result.Score != 0 {
		t.Errorf("Faithfulness.Score() score = %v, want 0", result.Score)
	}
}
