// Package types provides type definitions for structured data used throughout the skill-gap recommender.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Difficulty represents the ordered difficulty level of a taxonomy skill
type Difficulty string

// Difficulty levels, ordered Beginner < Intermediate < Advanced
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Rank returns the ordinal position of a difficulty level.
// Unknown levels rank after Advanced so malformed data sorts last.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyBeginner:
		return 0
	case DifficultyIntermediate:
		return 1
	case DifficultyAdvanced:
		return 2
	default:
		return 3
	}
}

// ValidDifficulty checks whether a difficulty value is one of the known levels
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// TaxonomyEntry represents one canonical skill in the taxonomy catalog.
// Entries are immutable after load; the taxonomy is rebuilt wholesale, never patched.
type TaxonomyEntry struct {
	Name          string     `json:"name" validate:"required"`
	Category      string     `json:"category" validate:"required"`
	Difficulty    Difficulty `json:"difficulty_level" validate:"required"`
	Aliases       []string   `json:"aliases,omitempty"`
	RelatedSkills []string   `json:"related_skills,omitempty"` // canonical names; may reference entries not yet loaded
}

// SkillProfile maps free-text skill names to proficiency in [0.0, 1.0]
type SkillProfile map[string]float64
