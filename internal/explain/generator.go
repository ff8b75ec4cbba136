// Package explain synthesizes the natural-language justification attached to
// each ranked recommendation.
package explain

import (
	"fmt"
	"strings"

	"github.com/jonathan/skillgap-recommender/internal/matching"
	"github.com/jonathan/skillgap-recommender/internal/types"
)

// sourceNuance holds the fixed source-specific closing sentence per source.
// Sources without an entry get no nuance sentence.
var sourceNuance = map[types.Source]string{
	types.SourceCoursera: "Coursera courses offer a structured curriculum with certification.",
	types.SourceGitHub:   "GitHub repositories give you hands-on code examples to learn from.",
	types.SourceYouTube:  "Video content is a visual and quick way to grasp the concepts.",
}

// Explain builds the justification string for one recommendation. It is a
// pure function of its inputs -- no external calls, deterministic for
// identical arguments -- and it never fails: every field access has an
// explicit default. Sentences are joined with single spaces and none is
// ever empty.
func Explain(rec types.RankedRecommendation) string {
	sentences := []string{
		gapSentence(rec.SkillGap),
		matchSentence(rec),
	}

	if social := socialSentence(rec.Resource); social != "" {
		sentences = append(sentences, social)
	}
	if nuance, ok := sourceNuance[rec.Resource.Source]; ok {
		sentences = append(sentences, nuance)
	}

	return strings.Join(sentences, " ")
}

func gapSentence(gap types.SkillGap) string {
	skill := gap.SkillName
	if skill == "" {
		skill = "this skill"
	}

	if gap.GapType == types.GapProficiencyLow {
		return fmt.Sprintf("You need to advance your %s proficiency from %.1f to %.1f for your target role.",
			skill, gap.CurrentProficiency, gap.TargetProficiency)
	}
	return fmt.Sprintf("Your target role requires %s, which you can learn from scratch with this resource.", skill)
}

func matchSentence(rec types.RankedRecommendation) string {
	resType := string(rec.Resource.Type)
	if resType == "" {
		resType = "resource"
	}

	var fit string
	switch rec.MatchStrength {
	case matching.StrengthStrong:
		fit = "a strong match for"
	case matching.StrengthRelevant:
		fit = "relevant to"
	default:
		fit = "related material for"
	}

	return fmt.Sprintf("This %s from %s is %s closing that gap.",
		resType, rec.Resource.Source.Display(), fit)
}

func socialSentence(res types.Resource) string {
	if !res.SocialVerified {
		return ""
	}
	if res.Popularity != "" {
		return fmt.Sprintf("It is community-verified with %s.", res.Popularity)
	}
	return "It is verified by strong community engagement."
}
