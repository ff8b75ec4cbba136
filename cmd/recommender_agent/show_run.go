package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/skillgap-recommender/internal/db"
	"github.com/spf13/cobra"
)

var showRunCmd = &cobra.Command{
	Use:   "show-run",
	Short: "Print a stored artifact of a persisted plan run",
	Long:  "Fetches one artifact (gap_report, candidates, recommendations, or learning_plan) of a previously persisted plan run from the database and prints it as indented JSON.",
	RunE:  runShowRun,
}

var (
	showRunID          string
	showRunStep        string
	showRunDatabaseURL string
)

func init() {
	showRunCmd.Flags().StringVar(&showRunID, "run-id", "", "Plan run ID (required)")
	showRunCmd.Flags().StringVar(&showRunStep, "step", db.StepLearningPlan, "Artifact step to fetch")
	showRunCmd.Flags().StringVar(&showRunDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	if err := showRunCmd.MarkFlagRequired("run-id"); err != nil {
		panic(fmt.Sprintf("failed to mark run-id flag as required: %v", err))
	}

	rootCmd.AddCommand(showRunCmd)
}

func runShowRun(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	runID, err := uuid.Parse(showRunID)
	if err != nil {
		return fmt.Errorf("invalid run-id format: %w", err)
	}

	if _, ok := db.CategoryForStep(showRunStep); !ok {
		return fmt.Errorf("unknown step %q (valid steps: %s)", showRunStep,
			strings.Join([]string{db.StepGapReport, db.StepCandidates, db.StepRecommendations, db.StepLearningPlan}, ", "))
	}

	databaseURL := envFallback(showRunDatabaseURL, "DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	content, err := database.GetArtifact(ctx, runID, showRunStep)
	if err != nil {
		return fmt.Errorf("failed to fetch artifact: %w", err)
	}
	if content == nil {
		return fmt.Errorf("no %s artifact stored for run %s", showRunStep, runID)
	}

	var doc any
	if err := json.Unmarshal(content, &doc); err == nil {
		if pretty, err := json.MarshalIndent(doc, "", "  "); err == nil {
			content = pretty
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s\n", content)

	return nil
}
