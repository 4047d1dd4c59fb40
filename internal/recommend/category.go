package recommend

import "strings"

// Coarse display categories derived from the course name. Display only,
// never a model feature.
const (
	CategoryMedical     = "Medical"
	CategoryEngineering = "Engineering"
	CategoryArts        = "Arts"
	CategoryCommerce    = "Commerce"
	CategoryGeneral     = "General"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryMedical, []string{"medicine", "medical", "dental", "nursing", "pharmacy", "veterinary", "surgery"}},
	{CategoryEngineering, []string{"engineering", "technology", "computer", "software", "electronics"}},
	{CategoryArts, []string{"arts", "design", "music", "languages", "history", "philosophy"}},
	{CategoryCommerce, []string{"commerce", "business", "management", "accounting", "finance", "marketing"}},
}

// categoryFor matches the course name against the keyword table; unmatched
// courses fall into General.
func categoryFor(course string) string {
	lower := strings.ToLower(course)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.category
			}
		}
	}
	return CategoryGeneral
}
