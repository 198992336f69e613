package parser

import (
	"regexp"
	"strings"
)

// Labeled cascades come before bare patterns so label specificity outranks
// position in the text, and three-segment codes before two-segment ones so
// "INC-2025-001" is never truncated to "INC-2025".
var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)incident[:\s#]+(\w+-\d+-\d+)`),
	regexp.MustCompile(`(?i)incident[:\s#]+(\w+-\d+)`),
	regexp.MustCompile(`(?i)reference[:\s#]+(\w+-\d+-\d+)`),
	regexp.MustCompile(`(?i)reference[:\s#]+(\w+-\d+)`),
	regexp.MustCompile(`(?i)ref[:\s#]+(\w+-\d+-\d+)`),
	regexp.MustCompile(`(?i)ref[:\s#]+(\w+-\d+)`),
	regexp.MustCompile(`(?i)case[:\s#]+(\w+-\d+-\d+)`),
	regexp.MustCompile(`(?i)case[:\s#]+(\w+-\d+)`),
	regexp.MustCompile(`(?i)ticket[:\s#]+(\w+-\d+-\d+)`),
	regexp.MustCompile(`(?i)ticket[:\s#]+(\w+-\d+)`),
	regexp.MustCompile(`(\w+-\d+-\d+)`),
	regexp.MustCompile(`(\w+-\d+)`),
}

// ExtractReference returns the best-guess incident/ticket/case reference
// code from the text, upper-cased, or nil when none is found.
func ExtractReference(text string) *string {
	for _, re := range referencePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			code := strings.ToUpper(m[1])
			return &code
		}
	}
	return nil
}
