// Package main implements the recommender_agent CLI for skill gap analysis
// and learning resource recommendation.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/skillgap-recommender/internal/gaps"
	"github.com/jonathan/skillgap-recommender/internal/schemas"
	"github.com/jonathan/skillgap-recommender/internal/taxonomy"
	"github.com/jonathan/skillgap-recommender/internal/types"
	"github.com/spf13/cobra"
)

var analyzeGapsCmd = &cobra.Command{
	Use:   "analyze-gaps",
	Short: "Detect skill gaps between a current and a target profile",
	Long:  "Compares a current skill profile against a target role profile using the taxonomy, and produces a typed, weighted GapReport JSON that validates against the schema.",
	RunE:  runAnalyzeGaps,
}

var (
	analyzeGapsTaxonomy  string
	analyzeGapsCurrent   string
	analyzeGapsTarget    string
	analyzeGapsOutput    string
	analyzeGapsTolerance float64
)

func init() {
	analyzeGapsCmd.Flags().StringVarP(&analyzeGapsTaxonomy, "taxonomy", "x", "", "Path to taxonomy JSON file (required)")
	analyzeGapsCmd.Flags().StringVarP(&analyzeGapsCurrent, "current", "c", "", "Path to current skill profile JSON file (required)")
	analyzeGapsCmd.Flags().StringVarP(&analyzeGapsTarget, "target", "t", "", "Path to target role profile JSON file (required)")
	analyzeGapsCmd.Flags().StringVarP(&analyzeGapsOutput, "out", "o", "", "Path to output GapReport JSON file (required)")
	analyzeGapsCmd.Flags().Float64Var(&analyzeGapsTolerance, "tolerance", 0, "Proficiency slack below target that still counts as met")

	for _, flag := range []string{"taxonomy", "current", "target", "out"} {
		if err := analyzeGapsCmd.MarkFlagRequired(flag); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", flag, err))
		}
	}

	rootCmd.AddCommand(analyzeGapsCmd)
}

func runAnalyzeGaps(_ *cobra.Command, _ []string) error {
	// 1. Load and index the taxonomy
	index, err := taxonomy.LoadIndex(analyzeGapsTaxonomy)
	if err != nil {
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}

	// 2. Load both profiles
	current, err := loadProfile(analyzeGapsCurrent)
	if err != nil {
		return fmt.Errorf("failed to load current profile: %w", err)
	}
	target, err := loadProfile(analyzeGapsTarget)
	if err != nil {
		return fmt.Errorf("failed to load target profile: %w", err)
	}

	// 3. Validate inputs against schemas (non-fatal)
	if schemaPath := schemas.ResolveSchemaPath("schemas/skill_profile.schema.json"); schemaPath != "" {
		for _, p := range []string{analyzeGapsCurrent, analyzeGapsTarget} {
			if err := schemas.ValidateJSON(schemaPath, p); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Warning: Input profile %s failed schema validation: %v\n", p, err)
			}
		}
	}

	// 4. Analyze gaps
	cfg := gaps.DefaultConfig()
	cfg.Tolerance = analyzeGapsTolerance
	report := gaps.AnalyzeGaps(index, current, target, cfg)

	for _, name := range report.Unresolved {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: target skill %q not found in taxonomy, skipped\n", name)
	}

	// 5. Write report to output file
	if err := writeJSON(analyzeGapsOutput, report); err != nil {
		return err
	}

	// 6. Validate output against schema (if schema file exists)
	if outputSchemaPath := schemas.ResolveSchemaPath("schemas/gap_report.schema.json"); outputSchemaPath != "" {
		if err := schemas.ValidateJSON(outputSchemaPath, analyzeGapsOutput); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("generated gap report is invalid: %w", err)
			}
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully wrote gap report with %d gap(s) to %s\n", len(report.Gaps), analyzeGapsOutput)

	return nil
}

// loadProfile reads a skill profile JSON file into a SkillProfile map
func loadProfile(path string) (types.SkillProfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	var profile types.SkillProfile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile JSON: %w", err)
	}
	return profile, nil
}

// writeJSON marshals v with indentation and writes it to path, creating the
// output directory if needed.
func writeJSON(path string, v any) error {
	jsonOutput, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}

	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
