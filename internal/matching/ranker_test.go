package matching

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillgap-recommender/internal/types"
)

// fakeEmbedder maps texts to fixed 2-d vectors; unknown texts get a default
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if vec, ok := f.vectors[text]; ok {
			out[i] = vec
		} else {
			out[i] = []float32{0, 1}
		}
	}
	return out, nil
}

func (f *fakeEmbedder) Close() error { return nil }

func missingGap(skill string) types.SkillGap {
	return types.SkillGap{SkillName: skill, GapType: types.GapMissing}
}

func TestDescriptor(t *testing.T) {
	assert.Equal(t, "Python fundamentals", Descriptor(missingGap("Python")))
	assert.Equal(t, "Go advanced techniques", Descriptor(types.SkillGap{
		SkillName: "Go", GapType: types.GapProficiencyLow,
	}))
}

func TestMatchStrengthBuckets(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, StrengthStrong, cfg.MatchStrength(0.72))
	assert.Equal(t, StrengthRelevant, cfg.MatchStrength(0.6))
	assert.Equal(t, StrengthRelevant, cfg.MatchStrength(0.4))
	assert.Equal(t, StrengthRelated, cfg.MatchStrength(0.39))
}

func TestRank_OrdersBySimilarity(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"Python fundamentals": {1, 0},
		"close":               {1, 0.2},
		"far":                 {0.2, 1},
	}}
	ranker := NewRanker(emb, nil, nil)

	candidates := []types.Resource{
		{Title: "far resource", RawText: "far", URL: "https://a"},
		{Title: "close resource", RawText: "close", URL: "https://b"},
	}

	ranked := ranker.Rank(context.Background(), missingGap("Python"), candidates)
	require.Len(t, ranked, 2)
	assert.Equal(t, "close resource", ranked[0].Resource.Title)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "far resource", ranked[1].Resource.Title)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Greater(t, ranked[0].SimilarityScore, ranked[1].SimilarityScore)
}

func TestRank_TieBreakChain(t *testing.T) {
	// All candidates embed identically, so ordering falls entirely to the
	// tie-break chain: verified first, then trust priority, then input order.
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	ranker := NewRanker(emb, nil, nil)

	candidates := []types.Resource{
		{Title: "other-first", RawText: "same", Source: types.SourceOther},
		{Title: "youtube", RawText: "same", Source: types.SourceYouTube},
		{Title: "coursera-verified", RawText: "same", Source: types.SourceCoursera, SocialVerified: true},
		{Title: "github", RawText: "same", Source: types.SourceGitHub},
		{Title: "other-second", RawText: "same", Source: types.SourceOther},
	}

	ranked := ranker.Rank(context.Background(), missingGap("Python"), candidates)
	require.Len(t, ranked, 5)
	assert.Equal(t, "coursera-verified", ranked[0].Resource.Title)
	assert.Equal(t, "github", ranked[1].Resource.Title)
	assert.Equal(t, "youtube", ranked[2].Resource.Title)
	assert.Equal(t, "other-first", ranked[3].Resource.Title)
	assert.Equal(t, "other-second", ranked[4].Resource.Title)
}

func TestRank_Deterministic(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	ranker := NewRanker(emb, nil, nil)

	candidates := []types.Resource{
		{Title: "a", RawText: "same", Source: types.SourceOther},
		{Title: "b", RawText: "same", Source: types.SourceOther},
		{Title: "c", RawText: "same", Source: types.SourceGitHub},
	}

	first := ranker.Rank(context.Background(), missingGap("Go"), candidates)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ranker.Rank(context.Background(), missingGap("Go"), candidates))
	}
}

func TestRank_LexicalFallbackOnEmbeddingFailure(t *testing.T) {
	emb := &fakeEmbedder{err: fmt.Errorf("model unavailable")}
	var warned bool
	ranker := NewRanker(emb, nil, func(string, ...any) { warned = true })

	candidates := []types.Resource{
		{Title: "unrelated", RawText: "cooking with cast iron", URL: "https://a"},
		{Title: "on topic", RawText: "Python fundamentals explained", URL: "https://b"},
	}

	ranked := ranker.Rank(context.Background(), missingGap("Python"), candidates)
	require.Len(t, ranked, 2)
	assert.True(t, warned)
	assert.Equal(t, "on topic", ranked[0].Resource.Title)
}

func TestRank_NilEmbedderUsesLexical(t *testing.T) {
	ranker := NewRanker(nil, nil, nil)

	candidates := []types.Resource{
		{Title: "match", RawText: "go fundamentals"},
	}

	ranked := ranker.Rank(context.Background(), missingGap("Go"), candidates)
	require.Len(t, ranked, 1)
	assert.Greater(t, ranked[0].SimilarityScore, 0.0)
}

func TestRank_EmptyTextScoredLowestNotExcluded(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	ranker := NewRanker(emb, nil, nil)

	candidates := []types.Resource{
		{Title: "", RawText: "", URL: "https://empty"},
		{Title: "real", RawText: "content", URL: "https://real"},
	}

	ranked := ranker.Rank(context.Background(), missingGap("Go"), candidates)
	require.Len(t, ranked, 2)
	assert.Equal(t, "https://real", ranked[0].Resource.URL)
	assert.Equal(t, unscorableScore, ranked[1].SimilarityScore)
}

func TestRank_EmptyCandidates(t *testing.T) {
	ranker := NewRanker(nil, nil, nil)
	assert.Empty(t, ranker.Rank(context.Background(), missingGap("Go"), nil))
}

func TestRank_TopKTruncation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopK = 2
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	ranker := NewRanker(emb, cfg, nil)

	candidates := make([]types.Resource, 6)
	for i := range candidates {
		candidates[i] = types.Resource{Title: fmt.Sprintf("r%d", i), RawText: "same"}
	}

	ranked := ranker.Rank(context.Background(), missingGap("Go"), candidates)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRank_SingleBatchedEmbeddingCall(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	ranker := NewRanker(emb, nil, nil)

	candidates := []types.Resource{
		{Title: "a", RawText: "x"},
		{Title: "b", RawText: "y"},
		{Title: "c", RawText: "z"},
	}

	ranker.Rank(context.Background(), missingGap("Go"), candidates)
	assert.Equal(t, 1, emb.calls)
}
