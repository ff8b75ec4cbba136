package aggregate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillgap-recommender/internal/types"
)

// fakeSearcher returns canned hits per query, or fails every call
type fakeSearcher struct {
	name  string
	hits  map[string][]types.RawHit
	err   error
	block bool // never return until the context is cancelled
}

func (f *fakeSearcher) Name() string { return f.name }

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]types.RawHit, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	hits := f.hits[query]
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}
	return hits, nil
}

func pythonGap() types.SkillGap {
	return types.SkillGap{
		SkillName: "Python",
		GapType:   types.GapMissing,
		Aliases:   []string{"Py", "python3", "cpython"},
	}
}

func TestBuildQueries_Bounded(t *testing.T) {
	agg := New(nil, nil, nil)

	queries := agg.BuildQueries(pythonGap())

	// canonical + 2 aliases (cap), x 3 intent phrases
	require.Len(t, queries, 9)
	assert.Contains(t, queries, "Python course")
	assert.Contains(t, queries, "Py tutorial")
	assert.Contains(t, queries, "python3 documentation")
	assert.NotContains(t, queries, "cpython course")
}

func TestAggregate_MergesAcrossSearchers(t *testing.T) {
	s1 := &fakeSearcher{name: "a", hits: map[string][]types.RawHit{
		"Python course": {
			{Title: "Python for Everybody", URL: "https://www.coursera.org/learn/python", Snippet: "Learn Python"},
		},
	}}
	s2 := &fakeSearcher{name: "b", hits: map[string][]types.RawHit{
		"Python tutorial": {
			{Title: "python-patterns", URL: "https://github.com/faif/python-patterns", Snippet: "Design patterns", Popularity: "41000 stars", Verified: true},
		},
	}}

	agg := New([]Searcher{s1, s2}, nil, nil)
	candidates := agg.Aggregate(context.Background(), pythonGap())

	require.Len(t, candidates, 2)
	urls := []string{candidates[0].URL, candidates[1].URL}
	assert.Contains(t, urls, "https://www.coursera.org/learn/python")
	assert.Contains(t, urls, "https://github.com/faif/python-patterns")
}

func TestAggregate_AllSearchersFailEmptyNotError(t *testing.T) {
	s1 := &fakeSearcher{name: "a", err: fmt.Errorf("quota exceeded")}
	s2 := &fakeSearcher{name: "b", err: fmt.Errorf("unreachable")}

	agg := New([]Searcher{s1, s2}, nil, nil)
	candidates := agg.Aggregate(context.Background(), pythonGap())

	assert.Empty(t, candidates)
}

func TestAggregate_TimeoutTreatedAsFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GapTimeout = 50 * time.Millisecond

	ok := &fakeSearcher{name: "ok", hits: map[string][]types.RawHit{
		"Python course": {{Title: "Doc", URL: "https://docs.python.org/3"}},
	}}
	stuck := &fakeSearcher{name: "stuck", block: true}

	agg := New([]Searcher{ok, stuck}, cfg, nil)

	start := time.Now()
	candidates := agg.Aggregate(context.Background(), pythonGap())
	elapsed := time.Since(start)

	// The stuck collaborator contributes nothing but does not abort aggregation.
	require.Len(t, candidates, 1)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestDedup_TrackingParamsAndTrailingSlash(t *testing.T) {
	hits := []types.RawHit{
		{Title: "Go Tour", URL: "https://Example.com/go-tour/?utm_source=news&utm_campaign=x"},
		{Title: "Go Tour", URL: "https://example.com/go-tour"},
	}

	resources := Dedup(hits)
	require.Len(t, resources, 1)
	assert.Equal(t, "https://example.com/go-tour", resources[0].URL)
}

func TestDedup_Idempotent(t *testing.T) {
	hits := []types.RawHit{
		{Title: "A", URL: "https://github.com/org/repo", Popularity: "900 stars", Verified: true},
		{Title: "B", URL: "https://example.com/post"},
		{Title: "A dup", URL: "https://github.com/org/repo/"},
	}

	once := Dedup(hits)
	twice := Dedup(append(append([]types.RawHit{}, hits...), hits...))

	assert.Equal(t, once, twice)
}

func TestDedup_TrustPriorityWinsAndSocialMerges(t *testing.T) {
	// Same URL surfaced by a generic web search (classified Other would need
	// a non-github host, so here both classify as GitHub; the merge keeps the
	// non-empty popularity from the first instance).
	hits := []types.RawHit{
		{Title: "repo via web", URL: "https://github.com/org/repo"},
		{Title: "repo via api", URL: "https://github.com/org/repo", Popularity: "500 stars", Verified: true},
	}

	resources := Dedup(hits)
	require.Len(t, resources, 1)
	assert.Equal(t, types.SourceGitHub, resources[0].Source)
	assert.Equal(t, "500 stars", resources[0].Popularity)
	assert.True(t, resources[0].SocialVerified)
}

func TestAggregate_CapKeepsHighestTrust(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCandidates = 2
	cfg.IntentPhrases = []string{"course"}
	cfg.MaxAliases = 0

	hits := []types.RawHit{
		{Title: "blog", URL: "https://blog.example.com/python"},
		{Title: "video", URL: "https://www.youtube.com/watch?v=abc"},
		{Title: "course", URL: "https://www.coursera.org/learn/python"},
		{Title: "repo", URL: "https://github.com/org/python-course"},
	}
	s := &fakeSearcher{name: "s", hits: map[string][]types.RawHit{"Python course": hits}}

	agg := New([]Searcher{s}, cfg, nil)
	candidates := agg.Aggregate(context.Background(), pythonGap())

	require.Len(t, candidates, 2)
	assert.Equal(t, types.SourceCoursera, candidates[0].Source)
	assert.Equal(t, types.SourceGitHub, candidates[1].Source)
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"HTTPS://Example.COM/Path/", "https://example.com/Path"},
		{"https://example.com/a?utm_medium=email&q=go", "https://example.com/a?q=go"},
		{"https://example.com/a?gclid=123", "https://example.com/a"},
		{"https://example.com/a#section", "https://example.com/a"},
		{"not a url/", "not a url"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeURL(tc.in), "input %q", tc.in)
	}
}

func TestDetectSource(t *testing.T) {
	assert.Equal(t, types.SourceCoursera, DetectSource("https://www.coursera.org/learn/go"))
	assert.Equal(t, types.SourceGitHub, DetectSource("https://github.com/golang/go"))
	assert.Equal(t, types.SourceYouTube, DetectSource("https://youtu.be/abc"))
	assert.Equal(t, types.SourceOther, DetectSource("https://go.dev/tour"))
}

func TestCleanSnippet_StripsMarkup(t *testing.T) {
	got := CleanSnippet("Learn <b>Python</b> fast&nbsp;&mdash; the   complete guide")
	assert.NotContains(t, got, "<b>")
	assert.Contains(t, got, "Python")
}
