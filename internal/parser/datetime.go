package parser

import (
	"regexp"
	"strings"
	"time"
)

const timeWindow = 20

var datePatterns = []*regexp.Regexp{
	// ISO: 2025-03-15
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	// Slash/dot/dash: 15/03/2025 or 03/15/2025
	regexp.MustCompile(`\d{1,2}[/.-]\d{1,2}[/.-]\d{4}`),
	// Textual: March 15, 2025
	regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}`),
}

var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}:\d{2}`),
	regexp.MustCompile(`\d{1,2}:\d{2}:\d{2}`),
	regexp.MustCompile(`(?i)\d{1,2}:\d{2}\s*[AP]M`),
}

// Known limitation: the day-first layouts are tried before month-first, so
// an ambiguous value like "03/04/2025" always parses day-first. The
// ordering is load-bearing and must not be rearranged.
var dateTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 3:04 PM",
	"2006-01-02",
	"2/1/2006 15:04",
	"1/2/2006 15:04",
	"2/1/2006",
	"1/2/2006",
	"January 2, 2006 15:04",
	"January 2, 2006",
	"January 2 2006",
}

// ExtractDateTime locates a date token in text, searches a bounded window
// around it for a time token, and parses the pair (or the date alone) into
// a naive local timestamp. Returns nil when no candidate parses.
func ExtractDateTime(text string) *time.Time {
	for _, datePattern := range datePatterns {
		loc := datePattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		dateStr := text[loc[0]:loc[1]]

		start := loc[0] - timeWindow
		if start < 0 {
			start = 0
		}
		end := loc[1] + timeWindow
		if end > len(text) {
			end = len(text)
		}
		window := text[start:end]

		for _, timePattern := range timePatterns {
			timeStr := timePattern.FindString(window)
			if timeStr == "" {
				continue
			}
			if ts, ok := parseDateTime(dateStr + " " + timeStr); ok {
				return &ts
			}
		}

		if ts, ok := parseDateTime(dateStr); ok {
			return &ts
		}
	}
	return nil
}

var (
	reMeridiem  = regexp.MustCompile(`(?i)\b[ap]m\b`)
	reMonthName = regexp.MustCompile(`(?i)^(january|february|march|april|may|june|july|august|september|october|november|december)`)
)

func parseDateTime(value string) (time.Time, bool) {
	candidate := canonicalizeDateTime(value)
	for _, layout := range dateTimeLayouts {
		if ts, err := time.ParseInLocation(layout, candidate, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// canonicalizeDateTime fixes the casing of month names and AM/PM markers
// so that matches made case-insensitively still satisfy time.Parse, which
// compares them literally.
func canonicalizeDateTime(value string) string {
	value = reMeridiem.ReplaceAllStringFunc(value, strings.ToUpper)
	value = reMonthName.ReplaceAllStringFunc(value, func(month string) string {
		return strings.ToUpper(month[:1]) + strings.ToLower(month[1:])
	})
	return value
}
