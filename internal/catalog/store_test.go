package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCompanyOps(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.AddCompany("Example Corp"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddCompany("example corp"); err == nil {
		t.Fatalf("duplicate accepted")
	}

	cfg, err := s.Companies()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Companies) != 1 || cfg.Companies[0] != "Example Corp" {
		t.Fatalf("unexpected companies: %v", cfg.Companies)
	}

	if err := s.RemoveCompany("Example Corp"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RemoveCompany("Example Corp"); err == nil {
		t.Fatalf("removing missing company succeeded")
	}
}

func TestKeywordOps(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.AddCategory("Severity"); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if err := s.AddKeyword("Severity", "sev1"); err != nil {
		t.Fatalf("add keyword: %v", err)
	}
	if err := s.AddKeyword("Missing", "x"); err == nil {
		t.Fatalf("keyword added to missing category")
	}

	cfg, err := s.Keywords()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.Categories["Severity"]; len(got) != 1 || got[0] != "sev1" {
		t.Fatalf("unexpected keywords: %v", got)
	}

	if err := s.RemoveKeyword("Severity", "sev1"); err != nil {
		t.Fatalf("remove keyword: %v", err)
	}
	if err := s.RemoveCategory("Severity"); err != nil {
		t.Fatalf("remove category: %v", err)
	}
}

func TestIncidentCodeOps(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.AddIncidentCode("inc", "generic incident"); err != nil {
		t.Fatalf("add: %v", err)
	}
	cfg, err := s.IncidentCodes()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// Codes are stored upper-cased.
	if cfg.Codes["INC"] != "generic incident" {
		t.Fatalf("unexpected codes: %v", cfg.Codes)
	}
	if err := s.UpdateIncidentCode("INC", "updated"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.RemoveIncidentCode("INC"); err != nil {
		t.Fatalf("remove: %v", err)
	}
}

func TestSaveCreatesBackup(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	if err := s.AddCompany("First"); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Second save must back up the file written by the first.
	if err := s.AddCompany("Second"); err != nil {
		t.Fatalf("add: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "backups"))
	if err != nil {
		t.Fatalf("backups dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected at least one backup file")
	}
}

func TestEngineConfigDefaults(t *testing.T) {
	s := NewStore(t.TempDir())

	cfg, err := s.EngineConfig()
	if err != nil {
		t.Fatalf("engine config: %v", err)
	}
	if len(cfg.Keywords) == 0 {
		t.Fatalf("expected default keyword categories")
	}
	if len(cfg.KeywordList) == 0 {
		t.Fatalf("expected default label list")
	}
}

func TestEngineConfigRejectsBadFieldPattern(t *testing.T) {
	dir := t.TempDir()
	blob := `{"labels": ["Status"], "fields": {"impact": ["no capture group"]}}`
	if err := os.WriteFile(filepath.Join(dir, "extraction.json"), []byte(blob), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewStore(dir).EngineConfig(); err == nil {
		t.Fatalf("expected configuration error")
	}
}

func TestReportMappingOps(t *testing.T) {
	s := NewStore(t.TempDir())

	mappings, err := s.ReportMappings()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if _, ok := mappings["incidents"]; !ok {
		t.Fatalf("expected default incidents mapping")
	}

	err = s.SetReportMapping("custom", ReportMapping{SheetName: "Sheet1", Columns: map[string]string{"company": "Company"}})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.RemoveReportMapping("custom"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RemoveReportMapping("custom"); err == nil {
		t.Fatalf("removing missing mapping succeeded")
	}
}
