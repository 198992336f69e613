package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Value-association rules, most explicit convention first. The %s slot
// receives the regex-escaped keyword; each rule captures the value up to
// the end of the line.
var valueRules = []string{
	`(?i)%s[:\s]+([^:\n\r]+?)(?:\n|\r|$)`,   // Keyword: Value
	`(?i)%s\s*=\s*([^:\n\r]+?)(?:\n|\r|$)`,  // Keyword = Value
	`(?i)%s\s*-\s*([^:\n\r]+?)(?:\n|\r|$)`,  // Keyword - Value
	`(?i)%s\s+is\s+([^:\n\r]+?)(?:\n|\r|$)`, // Keyword is Value
	`(?i)([^:\n\r]+?)\s+for\s+%s(?:\n|\r|$)`, // Value for Keyword
}

// ValueForKeyword finds the value associated with a keyword by trying each
// rule in order. The keyword is escaped before being embedded, so
// configured keywords cannot inject regex syntax. Returns nil when no rule
// matches.
func ValueForKeyword(text, keyword string) *string {
	escaped := regexp.QuoteMeta(keyword)
	for _, rule := range valueRules {
		re := regexp.MustCompile(fmt.Sprintf(rule, escaped))
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		return &value
	}
	return nil
}
