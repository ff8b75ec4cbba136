package types

// GapType classifies a detected skill gap
type GapType string

// Gap type constants
const (
	// GapMissing means the skill is absent from the current profile entirely
	GapMissing GapType = "missing"
	// GapProficiencyLow means the skill is present but below the target level
	GapProficiencyLow GapType = "proficiency_low"
)

// SkillGap represents a detected deficiency between a user's current proficiency
// and a target role's required proficiency for one canonical skill.
// Gaps are created fresh per recommendation request and never persisted by the core.
type SkillGap struct {
	SkillName          string     `json:"skill_name"`
	Category           string     `json:"category"`
	Difficulty         Difficulty `json:"difficulty_level"`
	GapType            GapType    `json:"gap_type"`
	CurrentProficiency float64    `json:"current_proficiency"`
	TargetProficiency  float64    `json:"target_proficiency"`
	Weight             float64    `json:"weight"`
	Aliases            []string   `json:"aliases,omitempty"` // carried from the taxonomy for query building
}

// GapReport holds the gaps detected for one analysis request, sorted by weight
// (descending), plus any target skills that could not be resolved against the taxonomy.
type GapReport struct {
	Gaps       []SkillGap `json:"gaps"`
	Unresolved []string   `json:"unresolved,omitempty"`
}
