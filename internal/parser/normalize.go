// Package parser extracts structured incident data from free-form email
// text using ordered regular-expression cascades. Every function is a pure
// function of its inputs and safe for concurrent use.
package parser

import (
	"regexp"
	"strings"
)

var (
	reSeparators = regexp.MustCompile(`[_\-:;,.\n\r\t]`)
	reSpaces     = regexp.MustCompile(`\s+`)
)

// Normalize lower-cases text, folds common separator characters to spaces
// and collapses whitespace runs. Used for substring and keyword matching;
// regex extractors work on the original text so captured values keep their
// casing.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = reSeparators.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return s
}
