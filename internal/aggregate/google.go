package aggregate

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/skillgap-recommender/internal/types"
)

// GoogleSearcher discovers resources across the open web (including Coursera
// course pages) through the Google Custom Search JSON API.
type GoogleSearcher struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogleSearcher creates a Custom Search backed searcher
func NewGoogleSearcher(ctx context.Context, apiKey, cx string) (*GoogleSearcher, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleSearcher{svc: svc, cx: cx}, nil
}

// Name identifies the collaborator in warnings
func (s *GoogleSearcher) Name() string { return "google" }

// Search runs one Custom Search query and maps items onto raw hits
func (s *GoogleSearcher) Search(ctx context.Context, query string, maxResults int) ([]types.RawHit, error) {
	resp, err := s.svc.Cse.List().Cx(s.cx).Q(query).Num(int64(maxResults)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("custom search failed: %w", err)
	}

	hits := make([]types.RawHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Link == "" {
			continue
		}
		hits = append(hits, types.RawHit{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return hits, nil
}
