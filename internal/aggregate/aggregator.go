package aggregate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skillgap-recommender/internal/types"
)

// Config holds aggregation limits. The candidate cap bounds downstream
// embedding cost; the gap timeout bounds the whole fan-out.
type Config struct {
	IntentPhrases      []string
	MaxAliases         int
	MaxResultsPerQuery int
	MaxCandidates      int
	GapTimeout         time.Duration
}

// DefaultConfig returns the default aggregation configuration
func DefaultConfig() *Config {
	return &Config{
		IntentPhrases:      []string{"course", "tutorial", "documentation"},
		MaxAliases:         2,
		MaxResultsPerQuery: 5,
		MaxCandidates:      30,
		GapTimeout:         10 * time.Second,
	}
}

// Aggregator fans queries out to search collaborators and collapses the raw
// hits into deduplicated candidate resources.
type Aggregator struct {
	searchers []Searcher
	cfg       *Config
	logf      func(format string, args ...any)
}

// New creates an Aggregator over the given collaborators. logf receives
// per-source failure warnings and may be nil.
func New(searchers []Searcher, cfg *Config, logf func(format string, args ...any)) *Aggregator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Aggregator{searchers: searchers, cfg: cfg, logf: logf}
}

// BuildQueries constructs the bounded query set for a gap: the canonical
// skill name plus a couple of aliases, each combined with the fixed intent
// phrases.
func (a *Aggregator) BuildQueries(gap types.SkillGap) []string {
	names := []string{gap.SkillName}
	for i, alias := range gap.Aliases {
		if i >= a.cfg.MaxAliases {
			break
		}
		names = append(names, alias)
	}

	queries := make([]string, 0, len(names)*len(a.cfg.IntentPhrases))
	for _, name := range names {
		for _, intent := range a.cfg.IntentPhrases {
			queries = append(queries, fmt.Sprintf("%s %s", name, intent))
		}
	}
	return queries
}

// Aggregate discovers candidate resources for one gap. Every query/searcher
// combination is dispatched concurrently under the gap timeout. A failing or
// timed-out call contributes zero results; if everything fails the gap
// surfaces with an empty candidate list rather than an error, and downstream
// stages must tolerate that.
func (a *Aggregator) Aggregate(ctx context.Context, gap types.SkillGap) []types.Resource {
	queries := a.BuildQueries(gap)
	if len(queries) == 0 || len(a.searchers) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.GapTimeout)
	defer cancel()

	// Results land in fixed (query, searcher) slots so the flattened hit
	// order is deterministic regardless of completion order.
	slots := make([][]types.RawHit, len(queries)*len(a.searchers))

	g, gctx := errgroup.WithContext(ctx)
	for qi, query := range queries {
		for si, searcher := range a.searchers {
			slot := qi*len(a.searchers) + si
			query, searcher := query, searcher
			g.Go(func() error {
				hits, err := searcher.Search(gctx, query, a.cfg.MaxResultsPerQuery)
				if err != nil {
					a.logf("Warning: %s search for %q failed: %v\n", searcher.Name(), query, err)
					return nil // failure is data, not control flow
				}
				slots[slot] = hits
				return nil
			})
		}
	}
	_ = g.Wait() // workers never return errors

	var hits []types.RawHit
	for _, slot := range slots {
		hits = append(hits, slot...)
	}

	candidates := Dedup(hits)
	return a.cap(candidates)
}

// Dedup collapses raw hits into resources keyed by normalized URL. When the
// same URL appears across sources, the higher trust-priority instance wins
// and social-proof fields merge (the non-empty one is kept). Dedup is
// idempotent: feeding the same hits twice yields the same candidate set.
func Dedup(hits []types.RawHit) []types.Resource {
	resources := make([]types.Resource, 0, len(hits))
	byURL := make(map[string]int)

	for _, hit := range hits {
		if strings.TrimSpace(hit.URL) == "" {
			continue
		}
		normURL := NormalizeURL(hit.URL)
		source := DetectSource(normURL)

		if i, exists := byURL[normURL]; exists {
			existing := &resources[i]
			if source.TrustPriority() > existing.Source.TrustPriority() {
				existing.Title = hit.Title
				existing.Source = source
				existing.Type = DetectType(source)
				existing.RawText = buildRawText(hit)
			}
			if existing.Popularity == "" {
				existing.Popularity = hit.Popularity
			}
			existing.SocialVerified = existing.SocialVerified || hit.Verified
			continue
		}

		byURL[normURL] = len(resources)
		resources = append(resources, types.Resource{
			Title:          hit.Title,
			URL:            normURL,
			Source:         source,
			Type:           DetectType(source),
			SocialVerified: hit.Verified,
			Popularity:     hit.Popularity,
			RawText:        buildRawText(hit),
		})
	}

	return resources
}

// cap truncates the candidate list to MaxCandidates, keeping the
// highest-trust-priority items. The sort is stable so aggregation order is
// preserved within each priority tier.
func (a *Aggregator) cap(resources []types.Resource) []types.Resource {
	if a.cfg.MaxCandidates <= 0 || len(resources) <= a.cfg.MaxCandidates {
		return resources
	}
	sort.SliceStable(resources, func(i, j int) bool {
		return resources[i].Source.TrustPriority() > resources[j].Source.TrustPriority()
	})
	return resources[:a.cfg.MaxCandidates]
}

func buildRawText(hit types.RawHit) string {
	snippet := CleanSnippet(hit.Snippet)
	if snippet == "" {
		return strings.TrimSpace(hit.Title)
	}
	return strings.TrimSpace(hit.Title + ". " + snippet)
}
