// Package main provides the entry point for the skill-gap recommender CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recommender_agent",
	Short: "Skill gap analysis and learning resource recommendation",
	Long:  "Recommender Agent analyzes the gap between a current skill profile and a target role, aggregates learning resources from multiple sources, and produces a ranked, explained learning plan.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
