// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Taxonomy       string `json:"taxonomy,omitempty"`        // Path to taxonomy JSON file
	CurrentProfile string `json:"current_profile,omitempty"` // Path to current skill profile JSON
	TargetProfile  string `json:"target_profile,omitempty"`  // Path to target role profile JSON

	// Role info
	TargetRole string `json:"target_role,omitempty"` // Human-readable target role name

	// Limits and thresholds
	TopK              int     `json:"top_k,omitempty"`              // Recommendations kept per gap
	MaxCandidates     int     `json:"max_candidates,omitempty"`     // Candidate cap per gap before ranking
	Concurrency       int     `json:"concurrency,omitempty"`        // Gaps processed in flight
	Tolerance         float64 `json:"tolerance,omitempty"`          // Proficiency slack before a gap is emitted
	StrongThreshold   float64 `json:"strong_threshold,omitempty"`   // Similarity above this is a "strong match"
	RelevantThreshold float64 `json:"relevant_threshold,omitempty"` // Similarity at or above this is "relevant"

	// Category importance multipliers for gap weighting
	CategoryImportance map[string]float64 `json:"category_importance,omitempty"`

	// Behavior / credentials
	APIKey          string `json:"api_key,omitempty"`           // Gemini API key (embeddings)
	GoogleSearchKey string `json:"google_search_key,omitempty"` // Custom Search API key
	GoogleSearchCX  string `json:"google_search_cx,omitempty"`  // Custom Search engine ID
	YouTubeAPIKey   string `json:"youtube_api_key,omitempty"`   // YouTube Data API key
	GitHubToken     string `json:"github_token,omitempty"`      // GitHub token (optional)
	Verbose         bool   `json:"verbose,omitempty"`           // Print detailed debug information
	DatabaseURL     string `json:"database_url,omitempty"`      // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are handled by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.TopK < 0 {
		return fmt.Errorf("config error: 'top_k' must be non-negative")
	}
	if c.MaxCandidates < 0 {
		return fmt.Errorf("config error: 'max_candidates' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.Tolerance < 0 || c.Tolerance > 1 {
		return fmt.Errorf("config error: 'tolerance' must be in [0, 1]")
	}
	if c.StrongThreshold != 0 && c.RelevantThreshold > c.StrongThreshold {
		return fmt.Errorf("config error: 'relevant_threshold' must not exceed 'strong_threshold'")
	}

	// Validate file paths exist (if specified)
	for _, p := range []struct{ name, path string }{
		{"taxonomy", c.Taxonomy},
		{"current_profile", c.CurrentProfile},
		{"target_profile", c.TargetProfile},
	} {
		if p.path == "" {
			continue
		}
		if _, err := os.Stat(p.path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", p.name, p.path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Taxonomy == "" {
		result.Taxonomy = defaults.Taxonomy
	}
	if result.CurrentProfile == "" {
		result.CurrentProfile = defaults.CurrentProfile
	}
	if result.TargetProfile == "" {
		result.TargetProfile = defaults.TargetProfile
	}
	if result.TargetRole == "" {
		result.TargetRole = defaults.TargetRole
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.GoogleSearchKey == "" {
		result.GoogleSearchKey = defaults.GoogleSearchKey
	}
	if result.GoogleSearchCX == "" {
		result.GoogleSearchCX = defaults.GoogleSearchCX
	}
	if result.YouTubeAPIKey == "" {
		result.YouTubeAPIKey = defaults.YouTubeAPIKey
	}
	if result.GitHubToken == "" {
		result.GitHubToken = defaults.GitHubToken
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}
	if result.MaxCandidates == 0 {
		result.MaxCandidates = defaults.MaxCandidates
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Float fields: zero means unset; thresholds fall back to calibration defaults
	if result.StrongThreshold == 0 {
		if defaults.StrongThreshold > 0 {
			result.StrongThreshold = defaults.StrongThreshold
		} else {
			result.StrongThreshold = 0.6
		}
	}
	if result.RelevantThreshold == 0 {
		if defaults.RelevantThreshold > 0 {
			result.RelevantThreshold = defaults.RelevantThreshold
		} else {
			result.RelevantThreshold = 0.4
		}
	}

	if result.CategoryImportance == nil {
		result.CategoryImportance = defaults.CategoryImportance
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
