// Package catalog is the JSON-backed configuration store: company names,
// keyword categories, incident code dictionary, extraction rules and the
// report mappings that drive XLSX population. Every save rewrites the file
// atomically after taking a timestamped backup.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	companiesFile  = "company_names.json"
	keywordsFile   = "keywords.json"
	codesFile      = "incident_codes.json"
	extractionFile = "extraction.json"
	mappingsFile   = "report_mappings.json"
)

type Companies struct {
	Companies []string `json:"companies"`
}

type Keywords struct {
	Categories map[string][]string `json:"categories"`
}

type IncidentCodes struct {
	Codes map[string]string `json:"incident_codes"`
}

// Extraction carries the flat label list fed to the keyword-value cascade
// and the raw per-field pattern map. Patterns are validated when the
// engine config is assembled, not here.
type Extraction struct {
	Labels []string            `json:"labels"`
	Fields map[string][]string `json:"fields"`
}

// ReportMapping binds a data type to a sheet and a field→column-header map.
type ReportMapping struct {
	SheetName string            `json:"sheet_name"`
	Columns   map[string]string `json:"columns"`
}

type ReportMappings map[string]ReportMapping

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// load reads a JSON config file into out. A missing file is not an error:
// out keeps the defaults the caller seeded it with.
func (s *Store) load(name string, out any) error {
	blob, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(blob, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// save backs up the current file, then writes the new content via a
// temp-file rename so a crash cannot leave a torn config behind.
func (s *Store) save(name string, value any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	if err := s.backup(name); err != nil {
		return err
	}

	blob, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return err
	}

	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, append(blob, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(name))
}

func (s *Store) backup(name string) error {
	src := s.path(name)
	blob, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	backupDir := filepath.Join(s.dir, "backups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return err
	}

	stamp := time.Now().Format("20060102_150405")
	ext := filepath.Ext(name)
	base := name[:len(name)-len(ext)]
	dst := filepath.Join(backupDir, fmt.Sprintf("%s_%s%s", base, stamp, ext))
	return os.WriteFile(dst, blob, 0o644)
}

func (s *Store) Companies() (Companies, error) {
	out := Companies{Companies: []string{}}
	if err := s.load(companiesFile, &out); err != nil {
		return Companies{}, err
	}
	if out.Companies == nil {
		return Companies{}, fmt.Errorf("%s: missing companies list", companiesFile)
	}
	return out, nil
}

func (s *Store) Keywords() (Keywords, error) {
	out := Keywords{Categories: defaultCategories()}
	if err := s.load(keywordsFile, &out); err != nil {
		return Keywords{}, err
	}
	if out.Categories == nil {
		return Keywords{}, fmt.Errorf("%s: missing categories map", keywordsFile)
	}
	return out, nil
}

func (s *Store) IncidentCodes() (IncidentCodes, error) {
	out := IncidentCodes{Codes: map[string]string{}}
	if err := s.load(codesFile, &out); err != nil {
		return IncidentCodes{}, err
	}
	if out.Codes == nil {
		return IncidentCodes{}, fmt.Errorf("%s: missing incident_codes map", codesFile)
	}
	return out, nil
}

func (s *Store) Extraction() (Extraction, error) {
	out := defaultExtraction()
	if err := s.load(extractionFile, &out); err != nil {
		return Extraction{}, err
	}
	return out, nil
}

func (s *Store) ReportMappings() (ReportMappings, error) {
	out := defaultReportMappings()
	if err := s.load(mappingsFile, &out); err != nil {
		return nil, err
	}
	for dataType, mapping := range out {
		if mapping.SheetName == "" || len(mapping.Columns) == 0 {
			return nil, fmt.Errorf("%s: mapping %q needs sheet_name and columns", mappingsFile, dataType)
		}
	}
	return out, nil
}

func defaultCategories() map[string][]string {
	return map[string][]string{
		"Incident Type": {"outage", "breach", "failure", "error"},
		"Priority":      {"high", "medium", "low", "critical", "urgent"},
		"Status":        {"resolved", "ongoing", "investigating", "mitigated"},
	}
}

func defaultExtraction() Extraction {
	return Extraction{
		Labels: []string{"Incident Reference", "Company", "Status", "Priority", "Description"},
		Fields: map[string][]string{},
	}
}

func defaultReportMappings() ReportMappings {
	return ReportMappings{
		"incidents": {
			SheetName: "Incidents",
			Columns: map[string]string{
				"date":        "Date",
				"company":     "Company",
				"reference":   "Reference",
				"description": "Description",
				"status":      "Status",
				"priority":    "Priority",
			},
		},
	}
}
