package types

import (
	"time"

	"github.com/google/uuid"
)

// RankedRecommendation is one ranked resource for a gap, enriched with an explanation
type RankedRecommendation struct {
	Resource        Resource `json:"resource"`
	SkillGap        SkillGap `json:"skill_gap"` // back-reference, not ownership
	SimilarityScore float64  `json:"similarity_score"`
	Rank            int      `json:"rank"` // 1-based, per gap
	MatchStrength   string   `json:"match_strength"`
	Explanation     string   `json:"explanation"`
}

// GapRecommendations bundles one gap with its ordered recommendations
type GapRecommendations struct {
	Gap             SkillGap               `json:"gap"`
	Recommendations []RankedRecommendation `json:"recommendations"`
}

// LearningPlan is the final ordered output of the recommendation pipeline.
// Entry order is fixed by gap weight and taxonomy prerequisites, regardless
// of the order in which gaps finished processing.
type LearningPlan struct {
	ID          uuid.UUID            `json:"id"`
	TargetRole  string               `json:"target_role,omitempty"`
	GeneratedAt time.Time            `json:"generated_at"`
	Entries     []GapRecommendations `json:"entries"`
}
