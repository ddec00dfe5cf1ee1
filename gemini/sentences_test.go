package gemini_test

import (
	"context"
	"strings"
	"testing"

	"github.com/datar-psa/rageval/api"
	"github.com/datar-psa/rageval/embedding"
	"github.com/datar-psa/rageval/gemini"
	"github.com/datar-psa/rageval/internal/testutils"
)

func TestSyntaxSentenceSplitter_NoClient(t *testing.T) {
	splitter := gemini.NewSyntaxSentenceSplitter(nil)

	if _, err := splitter.Split(context.Background(), "Some text."); err == nil {
		t.Error("Split() expected error when language client is nil")
	}
}

// flatEmbedder returns the same vector for every text; the splitter plumbing
// is under test here, not similarity values
type flatEmbedder struct{}

func (flatEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return []float64{1, 0, 0}, nil
}

func (flatEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0, 0}
	}
	return out, nil
}

// TestSyntaxSentenceSplitter_Integration segments real text with the Cloud
// Natural Language syntax API, with hypert caching the HTTP traffic, and
// feeds the splitter through the Faithfulness metric. Requires recorded test
// data, or valid Google Cloud credentials with UPDATE_TESTS=true to record.
func TestSyntaxSentenceSplitter_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if !testutils.ShouldUpdate() && !testutils.HasRecordedData("sentences") {
		t.Skip("Skipping integration test: no recorded test data (set UPDATE_TESTS=true to record)")
	}

	ctx := context.Background()

	client := testutils.NewLanguageClient(t, testutils.DefaultGeminiTestConfig("sentences"))
	splitter := gemini.NewSyntaxSentenceSplitter(client)

	answer := "Dr. Smith joined in 2021. She leads the retrieval team. Does she publish? Yes!"

	sentences, err := splitter.Split(ctx, answer)
	if err != nil {
		t.Fatalf("Split() unexpected error = %v", err)
	}
	if len(sentences) != 4 {
		t.Fatalf("Split() returned %d sentences, want 4: %v", len(sentences), sentences)
	}
	// The naive punctuation heuristic would break after "Dr."; syntax
	// analysis keeps the abbreviation inside the first sentence.
	if !strings.HasPrefix(sentences[0], "Dr. Smith") {
		t.Errorf("Split() first sentence = %q, want abbreviation kept intact", sentences[0])
	}

	metric := embedding.Faithfulness(flatEmbedder{}, embedding.FaithfulnessOptions{Splitter: splitter.Split})
	result := metric.Score(ctx, api.EvalSample{
		Question: "Who leads the retrieval team?",
		Answer:   answer,
		Contexts: []string{"Dr. Smith has led the retrieval team since 2021 and publishes regularly."},
	})

	if result.Err != nil {
		t.Fatalf("Faithfulness.Score() unexpected error = %v", result.Err)
	}
	got, ok := result.Details["sentences"].([]string)
	if !ok || len(got) != len(sentences) {
		t.Errorf("Faithfulness.Score() sentences = %v, want the splitter output %v", result.Details["sentences"], sentences)
	}
}
