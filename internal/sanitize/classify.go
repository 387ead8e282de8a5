package sanitize

import "strings"

// categoryKeywords maps category slugs to the keywords that select them.
// Order matters: the first category with a hit wins.
var categoryKeywords = []struct {
	slug     string
	keywords []string
}{
	{"engineering", []string{"engineer", "developer", "programmer", "devops", "sre", "backend", "frontend", "full stack", "fullstack", "software", "infrastructure", "security"}},
	{"data", []string{"data scientist", "data engineer", "data analyst", "machine learning", "analytics", " ml ", " ai "}},
	{"design", []string{"designer", "design", " ux", " ui", "illustrator"}},
	{"product", []string{"product manager", "product owner", "program manager", "project manager"}},
	{"marketing", []string{"marketing", "growth", "content", "seo", "social media", "copywriter"}},
	{"sales", []string{"sales", "account executive", "business development", "customer success"}},
	{"operations", []string{"operations", "recruiter", "people", "finance", "accountant", "support", "legal", "office"}},
}

// FallbackCategorySlug is assigned when no keyword matches.
const FallbackCategorySlug = "other"

// Classify assigns a category slug from a posting's title and tags. The
// match is a case-insensitive substring scan against a fixed keyword table.
func Classify(title string, tags []string) string {
	haystack := " " + strings.ToLower(title) + " " + strings.ToLower(strings.Join(tags, " ")) + " "
	for _, cat := range categoryKeywords {
		for _, kw := range cat.keywords {
			if strings.Contains(haystack, kw) {
				return cat.slug
			}
		}
	}
	return FallbackCategorySlug
}
