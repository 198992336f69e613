package catalog

import (
	"fmt"
	"strings"
)

// Mutating operations used by the config:* CLI commands. Each one loads,
// edits and saves the relevant file; saving takes a backup first.

func (s *Store) AddCompany(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("company name is empty")
	}
	cfg, err := s.Companies()
	if err != nil {
		return err
	}
	for _, existing := range cfg.Companies {
		if strings.EqualFold(existing, name) {
			return fmt.Errorf("company already exists: %s", existing)
		}
	}
	cfg.Companies = append(cfg.Companies, name)
	return s.save(companiesFile, cfg)
}

func (s *Store) RemoveCompany(name string) error {
	cfg, err := s.Companies()
	if err != nil {
		return err
	}
	kept := cfg.Companies[:0]
	removed := false
	for _, existing := range cfg.Companies {
		if strings.EqualFold(existing, name) {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return fmt.Errorf("company not found: %s", name)
	}
	cfg.Companies = kept
	return s.save(companiesFile, cfg)
}

func (s *Store) AddCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return fmt.Errorf("category name is empty")
	}
	cfg, err := s.Keywords()
	if err != nil {
		return err
	}
	if _, exists := cfg.Categories[category]; exists {
		return fmt.Errorf("category already exists: %s", category)
	}
	cfg.Categories[category] = []string{}
	return s.save(keywordsFile, cfg)
}

func (s *Store) RemoveCategory(category string) error {
	cfg, err := s.Keywords()
	if err != nil {
		return err
	}
	if _, exists := cfg.Categories[category]; !exists {
		return fmt.Errorf("category not found: %s", category)
	}
	delete(cfg.Categories, category)
	return s.save(keywordsFile, cfg)
}

func (s *Store) AddKeyword(category, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return fmt.Errorf("keyword is empty")
	}
	cfg, err := s.Keywords()
	if err != nil {
		return err
	}
	list, exists := cfg.Categories[category]
	if !exists {
		return fmt.Errorf("category not found: %s", category)
	}
	for _, existing := range list {
		if strings.EqualFold(existing, keyword) {
			return fmt.Errorf("keyword already exists in %s: %s", category, existing)
		}
	}
	cfg.Categories[category] = append(list, keyword)
	return s.save(keywordsFile, cfg)
}

func (s *Store) RemoveKeyword(category, keyword string) error {
	cfg, err := s.Keywords()
	if err != nil {
		return err
	}
	list, exists := cfg.Categories[category]
	if !exists {
		return fmt.Errorf("category not found: %s", category)
	}
	kept := list[:0]
	removed := false
	for _, existing := range list {
		if strings.EqualFold(existing, keyword) {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return fmt.Errorf("keyword not found in %s: %s", category, keyword)
	}
	cfg.Categories[category] = kept
	return s.save(keywordsFile, cfg)
}

func (s *Store) AddIncidentCode(code, description string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fmt.Errorf("incident code is empty")
	}
	cfg, err := s.IncidentCodes()
	if err != nil {
		return err
	}
	if _, exists := cfg.Codes[code]; exists {
		return fmt.Errorf("incident code already exists: %s", code)
	}
	cfg.Codes[code] = description
	return s.save(codesFile, cfg)
}

func (s *Store) UpdateIncidentCode(code, description string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	cfg, err := s.IncidentCodes()
	if err != nil {
		return err
	}
	if _, exists := cfg.Codes[code]; !exists {
		return fmt.Errorf("incident code not found: %s", code)
	}
	cfg.Codes[code] = description
	return s.save(codesFile, cfg)
}

func (s *Store) RemoveIncidentCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	cfg, err := s.IncidentCodes()
	if err != nil {
		return err
	}
	if _, exists := cfg.Codes[code]; !exists {
		return fmt.Errorf("incident code not found: %s", code)
	}
	delete(cfg.Codes, code)
	return s.save(codesFile, cfg)
}

func (s *Store) SetReportMapping(dataType string, mapping ReportMapping) error {
	if mapping.SheetName == "" || len(mapping.Columns) == 0 {
		return fmt.Errorf("mapping %q needs sheet_name and columns", dataType)
	}
	mappings, err := s.ReportMappings()
	if err != nil {
		return err
	}
	mappings[dataType] = mapping
	return s.save(mappingsFile, mappings)
}

func (s *Store) RemoveReportMapping(dataType string) error {
	mappings, err := s.ReportMappings()
	if err != nil {
		return err
	}
	if _, exists := mappings[dataType]; !exists {
		return fmt.Errorf("mapping not found: %s", dataType)
	}
	delete(mappings, dataType)
	return s.save(mappingsFile, mappings)
}
