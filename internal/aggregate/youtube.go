package aggregate

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/jonathan/skillgap-recommender/internal/types"
)

// YouTubeSearcher discovers video tutorials through the YouTube Data API
type YouTubeSearcher struct {
	svc *youtube.Service
}

// NewYouTubeSearcher creates a YouTube Data API backed searcher
func NewYouTubeSearcher(ctx context.Context, apiKey string) (*YouTubeSearcher, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &YouTubeSearcher{svc: svc}, nil
}

// Name identifies the collaborator in warnings
func (s *YouTubeSearcher) Name() string { return "youtube" }

// Search runs one video search query and maps results onto raw hits
func (s *YouTubeSearcher) Search(ctx context.Context, query string, maxResults int) ([]types.RawHit, error) {
	resp, err := s.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	hits := make([]types.RawHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		hits = append(hits, types.RawHit{
			Title:   item.Snippet.Title,
			URL:     fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id.VideoId),
			Snippet: item.Snippet.Description,
		})
	}
	return hits, nil
}
