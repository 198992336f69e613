package catalog

import (
	"fmt"

	"github.com/kianwoon/report-population-tool/internal/parser"
)

// EngineConfig assembles the extraction engine configuration from the
// stored catalogs. Field patterns are compiled here, so a bad pattern
// fails the load instead of silently skipping per message.
func (s *Store) EngineConfig() (parser.Config, error) {
	companies, err := s.Companies()
	if err != nil {
		return parser.Config{}, err
	}
	keywords, err := s.Keywords()
	if err != nil {
		return parser.Config{}, err
	}
	extraction, err := s.Extraction()
	if err != nil {
		return parser.Config{}, err
	}

	fields, err := parser.CompileFieldPatterns(extraction.Fields)
	if err != nil {
		return parser.Config{}, fmt.Errorf("extraction config: %w", err)
	}

	return parser.Config{
		Companies:   parser.CompanyCatalog(companies.Companies),
		Keywords:    parser.KeywordCatalog(keywords.Categories),
		KeywordList: extraction.Labels,
		Fields:      fields,
	}, nil
}
