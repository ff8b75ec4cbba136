// Package aggregate discovers candidate learning resources for skill gaps by
// fanning out bounded queries to external search collaborators and collapsing
// the raw hits into deduplicated candidates.
package aggregate

import (
	"context"

	"github.com/jonathan/skillgap-recommender/internal/types"
)

// Searcher is the capability consumed from an external resource-discovery
// collaborator. Implementations may fail fast or time out; the aggregator
// treats both as zero results for that call.
type Searcher interface {
	// Name identifies the collaborator in warnings
	Name() string
	// Search runs one query and returns up to maxResults raw hits
	Search(ctx context.Context, query string, maxResults int) ([]types.RawHit, error)
}
