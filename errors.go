package rageval

import "github.com/datar-psa/rageval/api"

var (
	// ErrInvalidSample is reported when a sample is missing a field required by a metric
	ErrInvalidSample = api.ErrInvalidSample
	// ErrEmbeddingFailed is reported when the embedding provider call fails or times out
	ErrEmbeddingFailed = api.ErrEmbeddingFailed
	// ErrUnknownMetric is returned when an unregistered metric name is requested
	ErrUnknownMetric = api.ErrUnknownMetric
)
