package aggregate

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"

	"github.com/jonathan/skillgap-recommender/internal/types"
)

// starVerifiedThreshold is the star count above which a repository counts as
// community-verified social proof.
const starVerifiedThreshold = 100

// GitHubSearcher discovers hands-on repositories through the GitHub search API
type GitHubSearcher struct {
	client *github.Client
}

// NewGitHubSearcher creates a GitHub searcher. The token is optional;
// unauthenticated requests work with tighter rate limits.
func NewGitHubSearcher(token string) *GitHubSearcher {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubSearcher{client: client}
}

// Name identifies the collaborator in warnings
func (s *GitHubSearcher) Name() string { return "github" }

// Search runs one repository search query and maps results onto raw hits,
// carrying star counts as the social-proof signal.
func (s *GitHubSearcher) Search(ctx context.Context, query string, maxResults int) ([]types.RawHit, error) {
	opts := &github.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: maxResults},
	}

	result, _, err := s.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("github search failed: %w", err)
	}

	hits := make([]types.RawHit, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		if repo.GetHTMLURL() == "" {
			continue
		}
		stars := repo.GetStargazersCount()
		hits = append(hits, types.RawHit{
			Title:      repo.GetFullName(),
			URL:        repo.GetHTMLURL(),
			Snippet:    repo.GetDescription(),
			Popularity: fmt.Sprintf("%d stars", stars),
			Verified:   stars >= starVerifiedThreshold,
		})
	}
	return hits, nil
}
