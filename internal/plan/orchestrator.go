// Package plan provides the high-level orchestration of the recommendation
// pipeline: gap ordering, bounded concurrent per-gap processing, and final
// plan assembly.
package plan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skillgap-recommender/internal/aggregate"
	"github.com/jonathan/skillgap-recommender/internal/explain"
	"github.com/jonathan/skillgap-recommender/internal/matching"
	"github.com/jonathan/skillgap-recommender/internal/taxonomy"
	"github.com/jonathan/skillgap-recommender/internal/types"
)

// defaultConcurrency bounds how many gaps are processed in flight at once
const defaultConcurrency = 4

// Options holds orchestrator configuration
type Options struct {
	// Concurrency is the number of gaps processed in flight (default 4)
	Concurrency int
	// TargetRole is carried onto the plan for the caller
	TargetRole string
}

// Orchestrator sequences gaps and drives each through aggregation, ranking,
// and explanation.
type Orchestrator struct {
	index      *taxonomy.Index
	aggregator *aggregate.Aggregator
	ranker     *matching.Ranker
	opts       Options
}

// NewOrchestrator creates an Orchestrator over the pipeline stages
func NewOrchestrator(index *taxonomy.Index, aggregator *aggregate.Aggregator, ranker *matching.Ranker, opts Options) *Orchestrator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Orchestrator{
		index:      index,
		aggregator: aggregator,
		ranker:     ranker,
		opts:       opts,
	}
}

// BuildPlan assembles the learning plan for the given gaps. Gaps are ordered
// by weight with prerequisite stabilization, then processed concurrently with
// bounded parallelism; results are buffered and reassembled in plan order
// regardless of completion order. On deadline expiry, in-flight gaps surface
// whatever partial recommendations they have -- possibly none -- and the plan
// is still produced.
func (o *Orchestrator) BuildPlan(ctx context.Context, gaps []types.SkillGap) *types.LearningPlan {
	ordered := OrderGaps(o.index, gaps)

	entries := make([]types.GapRecommendations, len(ordered))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Concurrency)
	for i, gap := range ordered {
		i, gap := i, gap
		g.Go(func() error {
			entries[i] = o.processGap(gctx, gap)
			return nil
		})
	}
	_ = g.Wait() // per-gap failures are recovered, never propagated

	return &types.LearningPlan{
		ID:          uuid.New(),
		TargetRole:  o.opts.TargetRole,
		GeneratedAt: time.Now().UTC(),
		Entries:     entries,
	}
}

// processGap runs one gap through aggregation, ranking, and explanation.
// A gap with no surviving candidates comes back with zero recommendations
// rather than aborting the plan. Recommendations is always a non-nil slice so
// the serialized entry carries an empty list, never null.
func (o *Orchestrator) processGap(ctx context.Context, gap types.SkillGap) types.GapRecommendations {
	entry := types.GapRecommendations{
		Gap:             gap,
		Recommendations: []types.RankedRecommendation{},
	}

	candidates := o.aggregator.Aggregate(ctx, gap)
	if len(candidates) == 0 {
		return entry
	}

	ranked := o.ranker.Rank(ctx, gap, candidates)
	for i := range ranked {
		ranked[i].Explanation = explain.Explain(ranked[i])
	}
	entry.Recommendations = ranked
	return entry
}

// OrderGaps orders gaps primarily by the analyzer's weight ordering, then
// applies prerequisite stabilization: when skill A appears in skill B's
// related skills within the same category at lower or equal difficulty, A
// moves before B even if B has higher weight. The visited set breaks cycles,
// which fall back to weight order instead of deadlocking.
func OrderGaps(idx *taxonomy.Index, gaps []types.SkillGap) []types.SkillGap {
	byName := make(map[string]int, len(gaps))
	for i, gap := range gaps {
		byName[gap.SkillName] = i
	}

	prereqs := func(gap types.SkillGap) []int {
		if idx == nil {
			return nil
		}
		var out []int
		for _, rel := range idx.Related(gap.SkillName) {
			if rel.Category != gap.Category {
				continue
			}
			if rel.Difficulty.Rank() > gap.Difficulty.Rank() {
				continue
			}
			if i, ok := byName[rel.Name]; ok && gaps[i].SkillName != gap.SkillName {
				out = append(out, i)
			}
		}
		return out
	}

	ordered := make([]types.SkillGap, 0, len(gaps))
	visited := make(map[int]bool, len(gaps))

	var place func(i int)
	place = func(i int) {
		if visited[i] {
			return
		}
		visited[i] = true // marked before recursion so cycles skip re-insertion
		for _, p := range prereqs(gaps[i]) {
			place(p)
		}
		ordered = append(ordered, gaps[i])
	}

	for i := range gaps {
		place(i)
	}
	return ordered
}
