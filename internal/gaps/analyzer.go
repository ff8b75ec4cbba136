// Package gaps compares a user's current skill profile against a target role's
// required profile and emits typed, weighted skill gaps.
package gaps

import (
	"sort"

	"github.com/jonathan/skillgap-recommender/internal/taxonomy"
	"github.com/jonathan/skillgap-recommender/internal/types"
)

// Config holds the tunable knobs of gap analysis
type Config struct {
	// Tolerance is the proficiency slack below target that still counts as met
	Tolerance float64
	// CategoryImportance scales gap weight per taxonomy category.
	// Categories not listed use DefaultImportance.
	CategoryImportance map[string]float64
	// DefaultImportance is the weight multiplier for unlisted categories
	DefaultImportance float64
}

// DefaultConfig returns the default analyzer configuration
func DefaultConfig() *Config {
	return &Config{
		Tolerance:          0,
		CategoryImportance: map[string]float64{},
		DefaultImportance:  1.0,
	}
}

func (c *Config) importance(category string) float64 {
	if imp, ok := c.CategoryImportance[category]; ok {
		return imp
	}
	if c.DefaultImportance > 0 {
		return c.DefaultImportance
	}
	return 1.0
}

// AnalyzeGaps detects skill gaps between a current and a target profile.
// Both profiles are keyed by free-text skill names and resolved through the
// taxonomy; target skills that do not resolve are skipped (reported in
// GapReport.Unresolved for the caller to log, never raised as an error).
// Skills meeting or exceeding target yield no gap.
func AnalyzeGaps(idx *taxonomy.Index, current, target types.SkillProfile, cfg *Config) *types.GapReport {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Resolve the current profile onto canonical names first. When several
	// free-text keys collapse onto the same canonical skill, keep the max
	// proficiency so the user gets credit for their best evidence.
	currentByCanonical := make(map[string]float64)
	for name, prof := range current {
		entry, ok := idx.Resolve(name)
		if !ok {
			continue
		}
		if existing, seen := currentByCanonical[entry.Name]; !seen || prof > existing {
			currentByCanonical[entry.Name] = prof
		}
	}

	// Gaps starts as an empty slice so a report with no gaps serializes as an
	// empty list, never null.
	report := &types.GapReport{Gaps: []types.SkillGap{}}
	seen := make(map[string]bool)

	for name, targetProf := range target {
		entry, ok := idx.Resolve(name)
		if !ok {
			report.Unresolved = append(report.Unresolved, name)
			continue
		}
		if seen[entry.Name] {
			continue
		}
		seen[entry.Name] = true

		currentProf, has := currentByCanonical[entry.Name]

		gap := types.SkillGap{
			SkillName:          entry.Name,
			Category:           entry.Category,
			Difficulty:         entry.Difficulty,
			TargetProficiency:  targetProf,
			CurrentProficiency: currentProf,
			Aliases:            entry.Aliases,
		}

		switch {
		case !has:
			gap.GapType = types.GapMissing
			gap.CurrentProficiency = 0
		case targetProf-currentProf > cfg.Tolerance:
			gap.GapType = types.GapProficiencyLow
		default:
			// Target met or exceeded: no gap, no false positives.
			continue
		}

		gap.Weight = (gap.TargetProficiency - gap.CurrentProficiency) * cfg.importance(entry.Category)
		report.Gaps = append(report.Gaps, gap)
	}

	sortGaps(report.Gaps)
	sort.Strings(report.Unresolved)
	return report
}

// sortGaps orders gaps by weight descending; equal weights put the easier
// skill first to front-load achievable wins. Name is the final tie-break so
// the order is deterministic for map-driven input.
func sortGaps(gaps []types.SkillGap) {
	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Weight != gaps[j].Weight {
			return gaps[i].Weight > gaps[j].Weight
		}
		if gaps[i].Difficulty.Rank() != gaps[j].Difficulty.Rank() {
			return gaps[i].Difficulty.Rank() < gaps[j].Difficulty.Rank()
		}
		return gaps[i].SkillName < gaps[j].SkillName
	})
}
