package parser

import (
	"regexp"
	"sort"
	"strings"
)

var companyLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)company[:\s]+([^,\n\r]+)`),
	regexp.MustCompile(`(?i)organization[:\s]+([^,\n\r]+)`),
	regexp.MustCompile(`(?i)client[:\s]+([^,\n\r]+)`),
	regexp.MustCompile(`(?i)customer[:\s]+([^,\n\r]+)`),
}

// ResolveCompany matches text against a catalog of known company names and
// returns the catalog entry verbatim, or nil when nothing matches. Longer
// names are preferred so "ABC Corporation" wins over a shorter "ABC" that
// is a prefix of it; names of equal length keep catalog order.
//
// Label patterns (company/organization/client/customer) are tried first;
// the capture is tested for each sorted name as a case-insensitive
// substring. Without a label hit the raw text is scanned for each name as
// a whole word.
func ResolveCompany(text string, companies CompanyCatalog) *string {
	if len(companies) == 0 {
		return nil
	}

	sorted := make([]string, len(companies))
	copy(sorted, companies)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	for _, re := range companyLabelPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		captured := strings.ToLower(strings.TrimSpace(m[1]))
		for _, company := range sorted {
			if strings.Contains(captured, strings.ToLower(company)) {
				name := company
				return &name
			}
		}
	}

	lower := strings.ToLower(text)
	for _, company := range sorted {
		if !strings.Contains(lower, strings.ToLower(company)) {
			continue
		}
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(company) + `\b`)
		if re.MatchString(text) {
			name := company
			return &name
		}
	}

	return nil
}
