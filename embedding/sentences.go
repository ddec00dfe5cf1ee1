package embedding

import (
	"context"
	"strings"
	"unicode"
)

// SentenceSplitter segments text into sentences. The Faithfulness metric
// accepts a custom splitter for callers that need better segmentation than
// the default punctuation heuristic; see gemini.SyntaxSentenceSplitter.
type SentenceSplitter func(ctx context.Context, text string) ([]string, error)

// SplitSentences splits text into sentences on '.', '!' or '?' followed by
// whitespace or end of string. Empty fragments are discarded.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
			flush()
		}
	}
	flush()

	return sentences
}

func defaultSplitter(_ context.Context, text string) ([]string, error) {
	return SplitSentences(text), nil
}
