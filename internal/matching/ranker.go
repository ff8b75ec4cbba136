package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/skillgap-recommender/internal/embedding"
	"github.com/jonathan/skillgap-recommender/internal/types"
)

// Match-strength bucket labels
const (
	StrengthStrong   = "strong match"
	StrengthRelevant = "relevant"
	StrengthRelated  = "related"
)

// unscorableScore ranks candidates with no usable text below every real
// cosine score without excluding them; ranking stays total.
const unscorableScore = -1.0

// Config holds ranking thresholds and limits. The bucket thresholds are
// calibration defaults, not hard-coded truths.
type Config struct {
	StrongThreshold   float64
	RelevantThreshold float64
	TopK              int
}

// DefaultConfig returns the default ranking configuration
func DefaultConfig() *Config {
	return &Config{
		StrongThreshold:   0.6,
		RelevantThreshold: 0.4,
		TopK:              5,
	}
}

// MatchStrength maps a similarity score onto its qualitative bucket
func (c *Config) MatchStrength(score float64) string {
	switch {
	case score > c.StrongThreshold:
		return StrengthStrong
	case score >= c.RelevantThreshold:
		return StrengthRelevant
	default:
		return StrengthRelated
	}
}

// Ranker scores candidates against a gap descriptor and orders them
type Ranker struct {
	embedder embedding.Embedder
	cfg      *Config
	logf     func(format string, args ...any)
}

// NewRanker creates a Ranker. embedder may be nil, in which case ranking
// uses the lexical fallback; logf receives degradation warnings and may be nil.
func NewRanker(embedder embedding.Embedder, cfg *Config, logf func(format string, args ...any)) *Ranker {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Ranker{embedder: embedder, cfg: cfg, logf: logf}
}

// Descriptor builds the gap descriptor string that candidates are scored
// against: the skill name plus a gap-type-specific qualifier.
func Descriptor(gap types.SkillGap) string {
	switch gap.GapType {
	case types.GapProficiencyLow:
		return fmt.Sprintf("%s advanced techniques", gap.SkillName)
	default:
		return fmt.Sprintf("%s fundamentals", gap.SkillName)
	}
}

// Rank scores every candidate against the gap descriptor and returns the
// top-K recommendations in deterministic order. Embedding failure degrades
// to lexical scoring; it never fails the gap. Empty candidates yield an
// empty ranked sequence.
func (r *Ranker) Rank(ctx context.Context, gap types.SkillGap, candidates []types.Resource) []types.RankedRecommendation {
	if len(candidates) == 0 {
		return nil
	}

	descriptor := Descriptor(gap)
	scores := r.score(ctx, descriptor, candidates)

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}

	// Primary: similarity desc. Ties: social-verified first, then source
	// trust priority, then stable original aggregation order.
	sort.SliceStable(order, func(x, y int) bool {
		i, j := order[x], order[y]
		if scores[i] != scores[j] {
			return scores[i] > scores[j]
		}
		if candidates[i].SocialVerified != candidates[j].SocialVerified {
			return candidates[i].SocialVerified
		}
		if candidates[i].Source.TrustPriority() != candidates[j].Source.TrustPriority() {
			return candidates[i].Source.TrustPriority() > candidates[j].Source.TrustPriority()
		}
		return i < j
	})

	limit := len(order)
	if r.cfg.TopK > 0 && limit > r.cfg.TopK {
		limit = r.cfg.TopK
	}

	ranked := make([]types.RankedRecommendation, 0, limit)
	for pos := 0; pos < limit; pos++ {
		i := order[pos]
		ranked = append(ranked, types.RankedRecommendation{
			Resource:        candidates[i],
			SkillGap:        gap,
			SimilarityScore: scores[i],
			Rank:            pos + 1,
			MatchStrength:   r.cfg.MatchStrength(scores[i]),
		})
	}
	return ranked
}

// score computes a similarity score for every candidate, preferring one
// batched embedding call and falling back to lexical overlap.
func (r *Ranker) score(ctx context.Context, descriptor string, candidates []types.Resource) []float64 {
	scores := make([]float64, len(candidates))

	// Candidates with no usable text are scored lowest up front; they never
	// reach the embedding collaborator.
	texts := []string{descriptor}
	embeddable := make([]int, 0, len(candidates))
	for i, c := range candidates {
		text := candidateText(c)
		if text == "" {
			scores[i] = unscorableScore
			continue
		}
		embeddable = append(embeddable, i)
		texts = append(texts, text)
	}
	if len(embeddable) == 0 {
		return scores
	}

	if r.embedder != nil {
		vectors, err := r.embedder.EmbedTexts(ctx, texts)
		if err == nil && len(vectors) == len(texts) {
			descriptorVec := vectors[0]
			for k, i := range embeddable {
				scores[i] = CosineSimilarity(descriptorVec, vectors[k+1])
			}
			return scores
		}
		r.logf("Warning: embedding failed, falling back to lexical scoring: %v\n", err)
	}

	for _, i := range embeddable {
		scores[i] = LexicalSimilarity(descriptor, candidateText(candidates[i]))
	}
	return scores
}

func candidateText(resource types.Resource) string {
	if text := strings.TrimSpace(resource.RawText); text != "" {
		return text
	}
	return strings.TrimSpace(resource.Title)
}
