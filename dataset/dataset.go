// Package dataset builds typed evaluation samples from golden datasets.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/datar-psa/rageval/api"
)

// FromMaps converts raw records (for example decoded JSON) into typed samples.
// Recognized keys are "question", "answer", "contexts" and "ground_truth";
// anything else is rejected so dataset typos surface before a run.
func FromMaps(records []map[string]any) ([]api.EvalSample, error) {
	samples := make([]api.EvalSample, 0, len(records))
	for i, record := range records {
		sample, err := fromMap(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func fromMap(record map[string]any) (api.EvalSample, error) {
	var sample api.EvalSample
	for key, value := range record {
		switch key {
		case "question":
			s, ok := value.(string)
			if !ok {
				return sample, fmt.Errorf("question must be a string, got %T", value)
			}
			sample.Question = s
		case "answer":
			s, ok := value.(string)
			if !ok {
				return sample, fmt.Errorf("answer must be a string, got %T", value)
			}
			sample.Answer = s
		case "ground_truth":
			s, ok := value.(string)
			if !ok {
				return sample, fmt.Errorf("ground_truth must be a string, got %T", value)
			}
			sample.GroundTruth = s
		case "contexts":
			contexts, err := stringSlice(value)
			if err != nil {
				return sample, fmt.Errorf("contexts: %w", err)
			}
			sample.Contexts = contexts
		default:
			return sample, fmt.Errorf("unknown key %q", key)
		}
	}
	return sample, nil
}

func stringSlice(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %d must be a string, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a list of strings, got %T", value)
	}
}

// Load decodes a JSON array of samples from r.
func Load(r io.Reader) ([]api.EvalSample, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var samples []api.EvalSample
	if err := dec.Decode(&samples); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return samples, nil
}
