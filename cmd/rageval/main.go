// Command rageval scores a golden dataset of RAG outputs and prints the
// aggregate report as JSON. All scoring logic lives in the library packages;
// this binary is only glue around dataset loading and provider construction.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/datar-psa/rageval/api"
	"github.com/datar-psa/rageval/dataset"
	"github.com/datar-psa/rageval/gemini"
	"github.com/datar-psa/rageval/openai"
	"github.com/datar-psa/rageval/runner"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		datasetPath string
		metricNames []string
		provider    string
		model       string
		concurrency int
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "rageval",
		Short: "Score RAG pipeline outputs with embedding-based metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
			ctx := cmd.Context()

			f, err := os.Open(datasetPath)
			if err != nil {
				return fmt.Errorf("open dataset: %w", err)
			}
			defer f.Close()

			samples, err := dataset.Load(f)
			if err != nil {
				return err
			}

			embedder, err := newEmbedder(ctx, provider, model)
			if err != nil {
				return err
			}

			metrics, err := runner.MetricsFor(embedder, metricNames...)
			if err != nil {
				return err
			}

			r, err := runner.New(metrics,
				runner.WithConcurrency(concurrency),
				runner.WithTimeout(timeout),
			)
			if err != nil {
				return err
			}

			log.Info().
				Int("samples", len(samples)).
				Int("metrics", len(metrics)).
				Str("provider", provider).
				Msg("starting evaluation")

			start := time.Now()
			report := r.EvaluateDataset(ctx, samples)
			log.Info().Dur("elapsed", time.Since(start)).Msg("evaluation complete")

			out := struct {
				Samples       int                `json:"samples"`
				Summary       map[string]float64 `json:"summary"`
				FailureCounts map[string]int     `json:"failure_counts"`
			}{
				Samples:       len(report.SampleReports),
				Summary:       report.Summary(),
				FailureCounts: report.FailureCounts(),
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "path to a JSON golden dataset (required)")
	cmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to run (default: all)")
	cmd.Flags().StringVar(&provider, "provider", "gemini", "embedding provider: gemini or openai")
	cmd.Flags().StringVar(&model, "model", "", "embedding model name (provider default if empty)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "samples evaluated in parallel")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-metric call deadline (0 = none)")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func newEmbedder(ctx context.Context, provider, model string) (api.Embedder, error) {
	switch provider {
	case "gemini":
		client, err := genai.NewClient(ctx, &genai.ClientConfig{})
		if err != nil {
			return nil, fmt.Errorf("create genai client: %w", err)
		}
		if model == "" {
			model = "text-embedding-005"
		}
		return gemini.NewEmbedder(client, model), nil
	case "openai":
		return openai.NewEmbedder(openai.Config{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  model,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}
