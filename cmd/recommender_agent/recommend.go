package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/skillgap-recommender/internal/aggregate"
	"github.com/jonathan/skillgap-recommender/internal/config"
	"github.com/jonathan/skillgap-recommender/internal/db"
	"github.com/jonathan/skillgap-recommender/internal/embedding"
	"github.com/jonathan/skillgap-recommender/internal/gaps"
	"github.com/jonathan/skillgap-recommender/internal/matching"
	"github.com/jonathan/skillgap-recommender/internal/observability"
	"github.com/jonathan/skillgap-recommender/internal/plan"
	"github.com/jonathan/skillgap-recommender/internal/schemas"
	"github.com/jonathan/skillgap-recommender/internal/taxonomy"
	"github.com/jonathan/skillgap-recommender/internal/types"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run the full recommendation pipeline end-to-end",
	Long: `Orchestrates the entire recommendation process: gap analysis -> resource aggregation -> semantic ranking -> explanation -> plan assembly.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runRecommendCmd,
}

var (
	recommendConfigPath    string
	recommendTaxonomy      string
	recommendCurrent       string
	recommendTarget        string
	recommendRole          string
	recommendOutput        string
	recommendTopK          int
	recommendMaxCandidates int
	recommendConcurrency   int
	recommendTolerance     float64
	recommendAPIKey        string
	recommendDatabaseURL   string
	recommendVerbose       bool
)

func init() {
	// Config file flag (processed first)
	recommendCmd.Flags().StringVar(&recommendConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	recommendCmd.Flags().StringVarP(&recommendTaxonomy, "taxonomy", "x", "", "Path to taxonomy JSON file")
	recommendCmd.Flags().StringVarP(&recommendCurrent, "current", "c", "", "Path to current skill profile JSON file")
	recommendCmd.Flags().StringVarP(&recommendTarget, "target", "t", "", "Path to target role profile JSON file")
	recommendCmd.Flags().StringVarP(&recommendRole, "role", "r", "", "Human-readable target role name (carried onto the plan)")
	recommendCmd.Flags().StringVarP(&recommendOutput, "out", "o", "", "Path to output LearningPlan JSON file (optional)")
	recommendCmd.Flags().IntVar(&recommendTopK, "top-k", 0, "Recommendations kept per gap")
	recommendCmd.Flags().IntVar(&recommendMaxCandidates, "max-candidates", 0, "Candidate cap per gap before ranking")
	recommendCmd.Flags().IntVar(&recommendConcurrency, "concurrency", 0, "Gaps processed in flight")
	recommendCmd.Flags().Float64Var(&recommendTolerance, "tolerance", 0, "Proficiency slack below target that still counts as met")
	recommendCmd.Flags().BoolVarP(&recommendVerbose, "verbose", "v", false, "Print detailed per-gap recommendation output")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	recommendCmd.Flags().StringVar(&recommendAPIKey, "api-key", "", "Gemini API Key for embeddings (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for artifact persistence
	recommendCmd.Flags().StringVar(&recommendDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommendCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if recommendConfigPath != "" {
		loadedCfg, err := config.LoadConfig(recommendConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if recommendVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", recommendConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("taxonomy") {
		cfg.Taxonomy = recommendTaxonomy
	}
	if cmd.Flags().Changed("current") {
		cfg.CurrentProfile = recommendCurrent
	}
	if cmd.Flags().Changed("target") {
		cfg.TargetProfile = recommendTarget
	}
	if cmd.Flags().Changed("role") {
		cfg.TargetRole = recommendRole
	}
	if cmd.Flags().Changed("top-k") {
		cfg.TopK = recommendTopK
	}
	if cmd.Flags().Changed("max-candidates") {
		cfg.MaxCandidates = recommendMaxCandidates
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = recommendConcurrency
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = recommendTolerance
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = recommendAPIKey
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = recommendVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = recommendDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Config{
		TopK:          5,
		MaxCandidates: 30,
		Concurrency:   4,
	}
	cfg = cfg.MergeWithDefaults(defaults)

	// Step 4: Validate required fields
	if cfg.Taxonomy == "" {
		return fmt.Errorf("--taxonomy is required (via flag or config)")
	}
	if cfg.CurrentProfile == "" {
		return fmt.Errorf("--current is required (via flag or config)")
	}
	if cfg.TargetProfile == "" {
		return fmt.Errorf("--target is required (via flag or config)")
	}

	// Step 5: Credential handling (env vars fill unset config values)
	cfg.APIKey = envFallback(cfg.APIKey, "GEMINI_API_KEY")
	cfg.GoogleSearchKey = envFallback(cfg.GoogleSearchKey, "GOOGLE_SEARCH_API_KEY")
	cfg.GoogleSearchCX = envFallback(cfg.GoogleSearchCX, "GOOGLE_SEARCH_CX")
	cfg.YouTubeAPIKey = envFallback(cfg.YouTubeAPIKey, "YOUTUBE_API_KEY")
	cfg.GitHubToken = envFallback(cfg.GitHubToken, "GITHUB_TOKEN")
	cfg.DatabaseURL = envFallback(cfg.DatabaseURL, "DATABASE_URL")

	return runRecommendPipeline(ctx, cfg)
}

// runRecommendPipeline wires the pipeline stages together and drives them
func runRecommendPipeline(ctx context.Context, cfg config.Config) error {
	printer := observability.NewPrinter(os.Stdout)

	// Stage 1: Taxonomy and gap analysis
	_, _ = fmt.Fprintf(os.Stdout, "Step 1/4: Analyzing skill gaps...\n")

	index, err := taxonomy.LoadIndex(cfg.Taxonomy)
	if err != nil {
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}

	current, err := loadProfile(cfg.CurrentProfile)
	if err != nil {
		return fmt.Errorf("failed to load current profile: %w", err)
	}
	target, err := loadProfile(cfg.TargetProfile)
	if err != nil {
		return fmt.Errorf("failed to load target profile: %w", err)
	}

	gapCfg := gaps.DefaultConfig()
	gapCfg.Tolerance = cfg.Tolerance
	if cfg.CategoryImportance != nil {
		gapCfg.CategoryImportance = cfg.CategoryImportance
	}
	report := gaps.AnalyzeGaps(index, current, target, gapCfg)

	for _, name := range report.Unresolved {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: target skill %q not found in taxonomy, skipped\n", name)
	}
	if cfg.Verbose {
		printer.PrintGapReport(report)
	}
	if len(report.Gaps) == 0 {
		_, _ = fmt.Fprintf(os.Stdout, "No skill gaps detected; nothing to recommend.\n")
		return nil
	}

	// Stage 2: Search collaborators
	_, _ = fmt.Fprintf(os.Stdout, "Step 2/4: Configuring resource searchers...\n")
	searchers := buildSearchers(ctx, cfg)
	if len(searchers) == 0 {
		return fmt.Errorf("no resource searchers available; provide search credentials via config or environment")
	}
	if cfg.Verbose {
		for _, s := range searchers {
			_, _ = fmt.Fprintf(os.Stdout, "  using searcher: %s\n", s.Name())
		}
	}

	// Stage 3: Embedder (optional; ranking degrades to lexical overlap without it)
	_, _ = fmt.Fprintf(os.Stdout, "Step 3/4: Building ranking stages...\n")
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
	aggCfg.MaxCandidates = cfg.MaxCandidates
	aggregator := aggregate.New(searchers, aggCfg, warnf)

	rankCfg := matching.DefaultConfig()
	rankCfg.StrongThreshold = cfg.StrongThreshold
	rankCfg.RelevantThreshold = cfg.RelevantThreshold
	rankCfg.TopK = cfg.TopK
	ranker := matching.NewRanker(embedder, rankCfg, warnf)

	// Stage 4: Build the plan
	_, _ = fmt.Fprintf(os.Stdout, "Step 4/4: Building learning plan for %d gap(s)...\n", len(report.Gaps))
	orchestrator := plan.NewOrchestrator(index, aggregator, ranker, plan.Options{
		Concurrency: cfg.Concurrency,
		TargetRole:  cfg.TargetRole,
	})
	learningPlan := orchestrator.BuildPlan(ctx, report.Gaps)

	if cfg.Verbose {
		for i := range learningPlan.Entries {
			printer.PrintRecommendations(&learningPlan.Entries[i])
		}
	}
	printer.PrintPlanSummary(learningPlan)

	// Write the plan to disk if requested
	if recommendOutput != "" {
		if err := writeJSON(recommendOutput, learningPlan); err != nil {
			return err
		}
		if outputSchemaPath := schemas.ResolveSchemaPath("schemas/learning_plan.schema.json"); outputSchemaPath != "" {
			if err := schemas.ValidateJSON(outputSchemaPath, recommendOutput); err != nil {
				var validationErr *schemas.ValidationError
				if errors.As(err, &validationErr) {
					return fmt.Errorf("generated learning plan is invalid: %w", err)
				}
				_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
			}
		}
		_, _ = fmt.Fprintf(os.Stdout, "Successfully wrote learning plan to %s\n", recommendOutput)
	}

	// Persist artifacts when a database is configured (best-effort)
	if cfg.DatabaseURL != "" {
		persistArtifacts(ctx, cfg.DatabaseURL, report, learningPlan)
	}

	return nil
}

// buildSearchers assembles the available search collaborators from the
// configured credentials. Sources with missing credentials are skipped with a
// warning; GitHub search works unauthenticated so it is always included.
func buildSearchers(ctx context.Context, cfg config.Config) []aggregate.Searcher {
	var searchers []aggregate.Searcher

	if cfg.GoogleSearchKey != "" && cfg.GoogleSearchCX != "" {
		google, err := aggregate.NewGoogleSearcher(ctx, cfg.GoogleSearchKey, cfg.GoogleSearchCX)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to create Google searcher: %v\n", err)
		} else {
			searchers = append(searchers, google)
		}
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: GOOGLE_SEARCH_API_KEY or GOOGLE_SEARCH_CX not set; skipping web search\n")
	}

	if cfg.YouTubeAPIKey != "" {
		yt, err := aggregate.NewYouTubeSearcher(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to create YouTube searcher: %v\n", err)
		} else {
			searchers = append(searchers, yt)
		}
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: YOUTUBE_API_KEY not set; skipping video search\n")
	}

	searchers = append(searchers, aggregate.NewGitHubSearcher(cfg.GitHubToken))

	return searchers
}

// persistArtifacts stores the gap report and learning plan for a new plan
// run. Persistence failures are warnings; the pipeline result stands on its
// own.
func persistArtifacts(ctx context.Context, databaseURL string, report *types.GapReport, learningPlan *types.LearningPlan) {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to connect to database, skipping persistence: %v\n", err)
		return
	}
	defer database.Close()

	runID, err := database.CreatePlanRun(ctx, learningPlan.TargetRole)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to create plan run: %v\n", err)
		return
	}

	// The full candidate pool per gap is not retained after ranking, so the
	// candidates artifact records the resources that survived into the plan.
	candidates := make([]gapCandidates, 0, len(learningPlan.Entries))
	for _, entry := range learningPlan.Entries {
		resources := make([]types.Resource, 0, len(entry.Recommendations))
		for _, rec := range entry.Recommendations {
			resources = append(resources, rec.Resource)
		}
		candidates = append(candidates, gapCandidates{Gap: entry.Gap, Candidates: resources})
	}

	status := "completed"
	artifacts := []struct {
		step    string
		content any
	}{
		{db.StepGapReport, report},
		{db.StepCandidates, candidates},
		{db.StepRecommendations, learningPlan.Entries},
		{db.StepLearningPlan, learningPlan},
	}
	for _, artifact := range artifacts {
		if err := database.SaveArtifact(ctx, runID, artifact.step, artifact.content); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to save %s artifact: %v\n", artifact.step, err)
			status = "partial"
		}
	}

	if err := database.CompletePlanRun(ctx, runID, status); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to mark plan run complete: %v\n", err)
		return
	}
	_, _ = fmt.Fprintf(os.Stdout, "Persisted plan run %s\n", runID)
}

// envFallback returns value, or the named environment variable when value is
// empty.
func envFallback(value, envVar string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envVar)
}
