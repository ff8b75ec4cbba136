package types

// Source identifies where a learning resource was discovered
type Source string

// Known resource sources. Unknown hosts map to SourceOther rather than free text.
const (
	SourceCoursera Source = "coursera"
	SourceGitHub   Source = "github"
	SourceYouTube  Source = "youtube"
	SourceOther    Source = "other"
)

// TrustPriority returns the fixed trust ranking of a source, used to resolve
// duplicates and break ranking ties. Higher numbers indicate higher trust.
func (s Source) TrustPriority() int {
	switch s {
	case SourceCoursera:
		return 3
	case SourceGitHub:
		return 2
	case SourceYouTube:
		return 1
	default:
		return 0
	}
}

// Display returns the human-readable name of the source for explanations
func (s Source) Display() string {
	switch s {
	case SourceCoursera:
		return "Coursera"
	case SourceGitHub:
		return "GitHub"
	case SourceYouTube:
		return "YouTube"
	default:
		return "an independent site"
	}
}

// ResourceType classifies the format of a learning resource
type ResourceType string

// Resource type constants
const (
	TypeCourse     ResourceType = "course"
	TypeVideo      ResourceType = "video"
	TypeArticle    ResourceType = "article"
	TypeRepository ResourceType = "repository"
)

// RawHit is a single result from an external search collaborator before
// normalization. Popularity and Verified are optional enrichments a searcher
// may fill in when its API exposes them (e.g. GitHub stars).
type RawHit struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Snippet    string `json:"snippet"`
	Popularity string `json:"popularity,omitempty"` // raw, source-specific units ("1.2M views", "840 stars")
	Verified   bool   `json:"verified,omitempty"`
}

// Resource is a deduplicated candidate learning resource for one gap.
// The Resource Aggregator owns creation; resources are ephemeral per request.
type Resource struct {
	Title          string       `json:"title"`
	URL            string       `json:"url"` // normalized; dedup key
	Source         Source       `json:"source"`
	Type           ResourceType `json:"type"`
	SocialVerified bool         `json:"social_verified"`
	Popularity     string       `json:"popularity,omitempty"`
	RawText        string       `json:"raw_text"` // title + snippet, used for embedding
}
