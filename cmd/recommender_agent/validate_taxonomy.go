package main

import (
	"fmt"
	"os"

	"github.com/jonathan/skillgap-recommender/internal/schemas"
	"github.com/jonathan/skillgap-recommender/internal/taxonomy"
	"github.com/spf13/cobra"
)

var validateTaxonomyCmd = &cobra.Command{
	Use:   "validate-taxonomy",
	Short: "Validate a taxonomy JSON file",
	Long:  "Validates a taxonomy JSON file against the schema and the loader's structural rules (required fields, known difficulty levels, no duplicate aliases).",
	RunE:  runValidateTaxonomy,
}

var validateTaxonomyPath string

func init() {
	validateTaxonomyCmd.Flags().StringVarP(&validateTaxonomyPath, "taxonomy", "x", "", "Path to taxonomy JSON file (required)")

	if err := validateTaxonomyCmd.MarkFlagRequired("taxonomy"); err != nil {
		panic(fmt.Sprintf("failed to mark taxonomy flag as required: %v", err))
	}

	rootCmd.AddCommand(validateTaxonomyCmd)
}

func runValidateTaxonomy(_ *cobra.Command, _ []string) error {
	// 1. Schema validation (non-fatal: the loader is the authority)
	if schemaPath := schemas.ResolveSchemaPath("schemas/taxonomy.schema.json"); schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, validateTaxonomyPath); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: taxonomy failed schema validation: %v\n", err)
		}
	}

	// 2. Structural validation via the loader
	index, err := taxonomy.LoadIndex(validateTaxonomyPath)
	if err != nil {
		return fmt.Errorf("taxonomy is invalid: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Taxonomy is valid: %d skill(s) loaded from %s\n", index.Len(), validateTaxonomyPath)

	return nil
}
