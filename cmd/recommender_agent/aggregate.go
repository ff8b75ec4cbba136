package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/skillgap-recommender/internal/aggregate"
	"github.com/jonathan/skillgap-recommender/internal/config"
	"github.com/jonathan/skillgap-recommender/internal/schemas"
	"github.com/jonathan/skillgap-recommender/internal/types"
	"github.com/spf13/cobra"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Discover candidate resources for a gap report",
	Long:  "Reads a GapReport JSON file, fans queries out to the configured search sources, and writes the deduplicated candidate resources per gap. Search credentials are read from the environment or a config file.",
	RunE:  runAggregate,
}

var (
	aggregateConfigPath    string
	aggregateGaps          string
	aggregateOutput        string
	aggregateMaxCandidates int
)

// gapCandidates pairs a gap with its discovered candidate resources in the
// intermediate artifact written by the aggregate command.
type gapCandidates struct {
	Gap        types.SkillGap   `json:"gap"`
	Candidates []types.Resource `json:"candidates"`
}

func init() {
	aggregateCmd.Flags().StringVar(&aggregateConfigPath, "config", "", "Path to config.json file (search credentials)")
	aggregateCmd.Flags().StringVarP(&aggregateGaps, "gaps", "g", "", "Path to input GapReport JSON file (required)")
	aggregateCmd.Flags().StringVarP(&aggregateOutput, "out", "o", "", "Path to output candidates JSON file (required)")
	aggregateCmd.Flags().IntVar(&aggregateMaxCandidates, "max-candidates", 0, "Candidate cap per gap")

	for _, flag := range []string{"gaps", "out"} {
		if err := aggregateCmd.MarkFlagRequired(flag); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", flag, err))
		}
	}

	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadOptionalConfig(aggregateConfigPath)
	if err != nil {
		return err
	}

	report, err := loadGapReport(aggregateGaps)
	if err != nil {
		return err
	}

	searchers := buildSearchers(ctx, cfg)
	if len(searchers) == 0 {
		return fmt.Errorf("no resource searchers available; provide search credentials via config or environment")
	}

	aggCfg := aggregate.DefaultConfig()
	if aggregateMaxCandidates > 0 {
		aggCfg.MaxCandidates = aggregateMaxCandidates
	} else if cfg.MaxCandidates > 0 {
		aggCfg.MaxCandidates = cfg.MaxCandidates
	}
	aggregator := aggregate.New(searchers, aggCfg, func(format string, args ...any) {
		_, _ = fmt.Fprintf(os.Stderr, format, args...)
	})

	results := make([]gapCandidates, 0, len(report.Gaps))
	for _, gap := range report.Gaps {
		candidates := aggregator.Aggregate(ctx, gap)
		if len(candidates) == 0 {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: no candidates found for %q\n", gap.SkillName)
			candidates = []types.Resource{}
		}
		results = append(results, gapCandidates{Gap: gap, Candidates: candidates})
	}

	if err := writeJSON(aggregateOutput, results); err != nil {
		return err
	}

	if outputSchemaPath := schemas.ResolveSchemaPath("schemas/candidates.schema.json"); outputSchemaPath != "" {
		if err := schemas.ValidateJSON(outputSchemaPath, aggregateOutput); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("generated candidates are invalid: %w", err)
			}
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully wrote candidates for %d gap(s) to %s\n", len(results), aggregateOutput)

	return nil
}

// loadOptionalConfig loads and validates a config file when a path is given,
// then fills credentials from the environment.
func loadOptionalConfig(path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	cfg.APIKey = envFallback(cfg.APIKey, "GEMINI_API_KEY")
	cfg.GoogleSearchKey = envFallback(cfg.GoogleSearchKey, "GOOGLE_SEARCH_API_KEY")
	cfg.GoogleSearchCX = envFallback(cfg.GoogleSearchCX, "GOOGLE_SEARCH_CX")
	cfg.YouTubeAPIKey = envFallback(cfg.YouTubeAPIKey, "YOUTUBE_API_KEY")
	cfg.GitHubToken = envFallback(cfg.GitHubToken, "GITHUB_TOKEN")
	return cfg, nil
}

// loadGapReport reads a GapReport artifact from disk
func loadGapReport(path string) (*types.GapReport, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gap report file %s: %w", path, err)
	}

	var report types.GapReport
	if err := json.Unmarshal(content, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gap report JSON: %w", err)
	}
	return &report, nil
}
