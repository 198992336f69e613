package parser

import (
	"regexp"
	"strings"
)

// MatchKeywords returns the subset of catalog keywords that occur as whole
// words in the normalized text, grouped by category. Categories with no
// matches are omitted entirely. Keyword order within a category follows
// the catalog.
func MatchKeywords(text string, catalog KeywordCatalog) map[string][]string {
	results := map[string][]string{}
	normalized := Normalize(text)

	for category, keywordList := range catalog {
		var matches []string
		for _, keyword := range keywordList {
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(keyword)) + `\b`)
			if re.MatchString(normalized) {
				matches = append(matches, keyword)
			}
		}
		if len(matches) > 0 {
			results[category] = matches
		}
	}

	return results
}
