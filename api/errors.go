package api

import "errors"

var (
	// ErrInvalidSample is reported when a sample is missing a field the metric requires
	ErrInvalidSample = errors.New("sample is missing a required field for this metric")
	// ErrEmbeddingFailed is reported when the embedding provider call fails or times out
	ErrEmbeddingFailed = errors.New("embedding provider call failed")
	// ErrUnknownMetric is returned when an unregistered metric name is requested
	ErrUnknownMetric = errors.New("unknown metric name")
)
