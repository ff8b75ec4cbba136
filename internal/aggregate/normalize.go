package aggregate

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/skillgap-recommender/internal/types"
)

// trackingParams are query parameters stripped during URL normalization.
// They carry attribution, not identity, so two hits differing only in these
// are the same resource.
var trackingParams = map[string]bool{
	"gclid":  true,
	"fbclid": true,
	"mc_cid": true,
	"mc_eid": true,
	"ref":    true,
	"ref_":   true,
	"source": true,
}

// NormalizeURL canonicalizes a resource URL for deduplication: scheme and
// host lowercased, trailing slash stripped, tracking query parameters
// removed, fragment dropped. Unparseable URLs come back trimmed as-is so
// dedup stays total.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return strings.TrimSuffix(raw, "/")
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	query := parsed.Query()
	for key := range query {
		if trackingParams[key] || strings.HasPrefix(strings.ToLower(key), "utm_") {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// DetectSource maps a resource URL onto the closed source enumeration.
// Unknown hosts are SourceOther rather than free text.
func DetectSource(rawURL string) types.Source {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return types.SourceOther
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case strings.Contains(host, "coursera.org"):
		return types.SourceCoursera
	case strings.Contains(host, "github.com"):
		return types.SourceGitHub
	case strings.Contains(host, "youtube.com"), strings.Contains(host, "youtu.be"):
		return types.SourceYouTube
	default:
		return types.SourceOther
	}
}

// DetectType infers the resource format from its source
func DetectType(source types.Source) types.ResourceType {
	switch source {
	case types.SourceCoursera:
		return types.TypeCourse
	case types.SourceGitHub:
		return types.TypeRepository
	case types.SourceYouTube:
		return types.TypeVideo
	default:
		return types.TypeArticle
	}
}

// CleanSnippet strips HTML markup that search APIs leave in snippets (bold
// tags around query terms, entities) and collapses whitespace, so the text
// fed to the embedding collaborator is plain prose.
func CleanSnippet(snippet string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err == nil {
		snippet = doc.Text()
	}
	return strings.Join(strings.Fields(snippet), " ")
}
