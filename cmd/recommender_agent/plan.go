package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/skillgap-recommender/internal/aggregate"
	"github.com/jonathan/skillgap-recommender/internal/embedding"
	"github.com/jonathan/skillgap-recommender/internal/matching"
	"github.com/jonathan/skillgap-recommender/internal/observability"
	"github.com/jonathan/skillgap-recommender/internal/plan"
	"github.com/jonathan/skillgap-recommender/internal/schemas"
	"github.com/jonathan/skillgap-recommender/internal/taxonomy"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a learning plan from an existing gap report",
	Long:  "Reads a GapReport JSON file and drives aggregation, semantic ranking, and explanation for each gap, writing the assembled LearningPlan JSON. Use this to re-plan from a saved gap report without re-running analysis.",
	RunE:  runPlan,
}

var (
	planConfigPath  string
	planTaxonomy    string
	planGaps        string
	planRole        string
	planOutput      string
	planTopK        int
	planConcurrency int
	planVerbose     bool
)

func init() {
	planCmd.Flags().StringVar(&planConfigPath, "config", "", "Path to config.json file (search and embedding credentials)")
	planCmd.Flags().StringVarP(&planTaxonomy, "taxonomy", "x", "", "Path to taxonomy JSON file (required, for prerequisite ordering)")
	planCmd.Flags().StringVarP(&planGaps, "gaps", "g", "", "Path to input GapReport JSON file (required)")
	planCmd.Flags().StringVarP(&planRole, "role", "r", "", "Human-readable target role name (carried onto the plan)")
	planCmd.Flags().StringVarP(&planOutput, "out", "o", "", "Path to output LearningPlan JSON file (required)")
	planCmd.Flags().IntVar(&planTopK, "top-k", 0, "Recommendations kept per gap")
	planCmd.Flags().IntVar(&planConcurrency, "concurrency", 0, "Gaps processed in flight")
	planCmd.Flags().BoolVarP(&planVerbose, "verbose", "v", false, "Print detailed per-gap recommendation output")

	for _, flag := range []string{"taxonomy", "gaps", "out"} {
		if err := planCmd.MarkFlagRequired(flag); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", flag, err))
		}
	}

	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadOptionalConfig(planConfigPath)
	if err != nil {
		return err
	}

	index, err := taxonomy.LoadIndex(planTaxonomy)
	if err != nil {
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}

	report, err := loadGapReport(planGaps)
	if err != nil {
		return err
	}
	if len(report.Gaps) == 0 {
		return fmt.Errorf("gap report has no gaps; nothing to plan")
	}

	searchers := buildSearchers(ctx, cfg)
	if len(searchers) == 0 {
		return fmt.Errorf("no resource searchers available; provide search credentials via config or environment")
	}

	var embedder embedding.Embedder
	if cfg.APIKey != "" {
		geminiEmbedder, err := embedding.NewGeminiEmbedder(ctx, cfg.APIKey, embedding.DefaultModel)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to create embedding client, falling back to lexical ranking: %v\n", err)
		} else {
			embedder = geminiEmbedder
			defer func() { _ = geminiEmbedder.Close() }()
		}
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: GEMINI_API_KEY not set; ranking falls back to lexical overlap\n")
	}

	warnf := func(format string, args ...any) {
		_, _ = fmt.Fprintf(os.Stderr, format, args...)
	}

	aggCfg := aggregate.DefaultConfig()
	if cfg.MaxCandidates > 0 {
		aggCfg.MaxCandidates = cfg.MaxCandidates
	}
	aggregator := aggregate.New(searchers, aggCfg, warnf)

	rankCfg := matching.DefaultConfig()
	if cfg.StrongThreshold > 0 {
		rankCfg.StrongThreshold = cfg.StrongThreshold
	}
	if cfg.RelevantThreshold > 0 {
		rankCfg.RelevantThreshold = cfg.RelevantThreshold
	}
	if planTopK > 0 {
		rankCfg.TopK = planTopK
	} else if cfg.TopK > 0 {
		rankCfg.TopK = cfg.TopK
	}
	ranker := matching.NewRanker(embedder, rankCfg, warnf)

	role := planRole
	if role == "" {
		role = cfg.TargetRole
	}
	concurrency := planConcurrency
	if concurrency == 0 {
		concurrency = cfg.Concurrency
	}
	orchestrator := plan.NewOrchestrator(index, aggregator, ranker, plan.Options{
		Concurrency: concurrency,
		TargetRole:  role,
	})
	learningPlan := orchestrator.BuildPlan(ctx, report.Gaps)

	printer := observability.NewPrinter(os.Stdout)
	if planVerbose {
		for i := range learningPlan.Entries {
			printer.PrintRecommendations(&learningPlan.Entries[i])
		}
	}
	printer.PrintPlanSummary(learningPlan)

	if err := writeJSON(planOutput, learningPlan); err != nil {
		return err
	}

	if outputSchemaPath := schemas.ResolveSchemaPath("schemas/learning_plan.schema.json"); outputSchemaPath != "" {
		if err := schemas.ValidateJSON(outputSchemaPath, planOutput); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("generated learning plan is invalid: %w", err)
			}
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully wrote learning plan to %s\n", planOutput)

	return nil
}
