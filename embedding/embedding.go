// Package embedding implements the embedding-based RAG evaluation metrics:
// answer relevancy, faithfulness and context precision.
package embedding

import "github.com/datar-psa/rageval/api"

// degrade fills in the degenerate zero score for a sample that is missing a
// field the metric needs. Strict metrics also flag the result as failed.
func degrade(result api.MetricResult, strict bool, reason string) api.MetricResult {
	result.Score = 0
	result.Details["reason"] = reason
	if strict {
		result.Err = api.ErrInvalidSample
	}
	return result
}
