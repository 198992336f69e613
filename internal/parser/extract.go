package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CompanyCatalog is the set of known company names. Case is preserved for
// output; comparison is case-insensitive.
type CompanyCatalog []string

// KeywordCatalog maps a category name to its ordered keyword list.
type KeywordCatalog map[string][]string

// FieldPatternMap maps an output field name to its compiled pattern
// cascade. Build one with CompileFieldPatterns so invalid patterns are
// rejected at configuration-load time instead of per message.
type FieldPatternMap map[string][]*regexp.Regexp

// CompileFieldPatterns compiles a raw field→patterns map. Each pattern
// must compile and contain at least one capturing group; anything else is
// a configuration error.
func CompileFieldPatterns(raw map[string][]string) (FieldPatternMap, error) {
	out := make(FieldPatternMap, len(raw))
	for field, patterns := range raw {
		compiled := make([]*regexp.Regexp, 0, len(patterns))
		for _, pattern := range patterns {
			re, err := regexp.Compile(`(?i)` + pattern)
			if err != nil {
				return nil, fmt.Errorf("field %q: invalid pattern %q: %w", field, pattern, err)
			}
			if re.NumSubexp() == 0 {
				return nil, fmt.Errorf("field %q: pattern %q has no capturing group", field, pattern)
			}
			compiled = append(compiled, re)
		}
		out[field] = compiled
	}
	return out, nil
}

// Config carries the catalogs driving one extraction run. Every part is
// optional; extractors for absent parts are skipped.
type Config struct {
	Companies   CompanyCatalog
	Keywords    KeywordCatalog
	KeywordList []string
	Fields      FieldPatternMap
}

// Result is the structured record produced from one message. Optional
// scalar fields are nil when the corresponding extractor found nothing.
type Result struct {
	MatchedKeywords []string            `json:"matched_keywords,omitempty"`
	ExtractedData   map[string]string   `json:"extracted_data,omitempty"`
	Company         *string             `json:"company,omitempty"`
	Reference       *string             `json:"reference,omitempty"`
	DateTime        *time.Time          `json:"datetime,omitempty"`
	Keywords        map[string][]string `json:"keywords,omitempty"`
	Fields          map[string]string   `json:"fields,omitempty"`
}

// ParseContent scans text for a flat keyword list. A keyword matches when
// its lower-cased form is a substring of the normalized text; for each
// match the value cascade is applied against the original text.
func ParseContent(text string, keywords []string) ([]string, map[string]string) {
	matched := make([]string, 0, len(keywords))
	extracted := map[string]string{}
	normalized := Normalize(text)

	for _, keyword := range keywords {
		if !strings.Contains(normalized, strings.ToLower(keyword)) {
			continue
		}
		matched = append(matched, keyword)
		if value := ValueForKeyword(text, keyword); value != nil {
			extracted[keyword] = *value
		}
	}

	return matched, extracted
}

// ExtractStructured runs every configured extractor against the text and
// merges the outcomes. Absent sub-results are omitted, never errors.
func ExtractStructured(text string, cfg Config) Result {
	var res Result

	if len(cfg.Companies) > 0 {
		res.Company = ResolveCompany(text, cfg.Companies)
	}

	res.Reference = ExtractReference(text)
	res.DateTime = ExtractDateTime(text)

	if len(cfg.Keywords) > 0 {
		if matches := MatchKeywords(text, cfg.Keywords); len(matches) > 0 {
			res.Keywords = matches
		}
	}

	if len(cfg.KeywordList) > 0 {
		res.MatchedKeywords, res.ExtractedData = ParseContent(text, cfg.KeywordList)
	}

	if len(cfg.Fields) > 0 {
		fields := map[string]string{}
		for name, cascade := range cfg.Fields {
			for _, re := range cascade {
				m := re.FindStringSubmatch(text)
				if m == nil {
					continue
				}
				fields[name] = strings.TrimSpace(m[1])
				break
			}
		}
		if len(fields) > 0 {
			res.Fields = fields
		}
	}

	return res
}
