package gemini

import (
	"context"
	"fmt"

	language "cloud.google.com/go/language/apiv1"
	languagepb "cloud.google.com/go/language/apiv1/languagepb"

	"github.com/datar-psa/rageval/embedding"
)

// SyntaxSentenceSplitter segments text into sentences using the Google Cloud
// Natural Language syntax analysis API. Where the default punctuation
// heuristic mishandles abbreviations or decimal numbers, this splitter can be
// plugged into the Faithfulness metric instead.
type SyntaxSentenceSplitter struct {
	client *language.Client
}

// NewSyntaxSentenceSplitter creates a splitter using a preconfigured
// *language.Client (auth handled by caller)
func NewSyntaxSentenceSplitter(client *language.Client) *SyntaxSentenceSplitter {
	return &SyntaxSentenceSplitter{client: client}
}

// Split segments text into sentences via syntax analysis
func (s *SyntaxSentenceSplitter) Split(ctx context.Context, text string) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("language client is required")
	}
	if text == "" {
		return nil, nil
	}

	req := &languagepb.AnalyzeSyntaxRequest{
		Document: &languagepb.Document{
			Type: languagepb.Document_PLAIN_TEXT,
			Source: &languagepb.Document_Content{
				Content: text,
			},
		},
		EncodingType: languagepb.EncodingType_UTF8,
	}

	resp, err := s.client.AnalyzeSyntax(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analyze syntax failed: %w", err)
	}

	sentences := make([]string, 0, len(resp.Sentences))
	for _, sentence := range resp.Sentences {
		if content := sentence.GetText().GetContent(); content != "" {
			sentences = append(sentences, content)
		}
	}

	return sentences, nil
}

// Verify that Split satisfies the splitter contract
var _ embedding.SentenceSplitter = (*SyntaxSentenceSplitter)(nil).Split
