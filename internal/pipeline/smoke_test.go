package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kianwoon/report-population-tool/internal"
	"github.com/kianwoon/report-population-tool/internal/catalog"
	"github.com/kianwoon/report-population-tool/internal/config"
	"github.com/kianwoon/report-population-tool/internal/storage"
)

func TestSmokeEmailToXLSX(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := catalog.NewStore(filepath.Join(tmp, "config"))
	if err := store.AddCompany("Acme Corp"); err != nil {
		t.Fatal(err)
	}

	rawBlob, err := os.ReadFile(filepath.Join("testdata", "sample_incident.eml"))
	if err != nil {
		t.Fatal(err)
	}
	rawPath := filepath.Join(tmp, "fixture.eml")
	if err := os.WriteFile(rawPath, rawBlob, 0o644); err != nil {
		t.Fatal(err)
	}

	email, err := db.UpsertEmail("imap", "<fixture-1@example.com>", "Incident INC-2025-00123 - Acme Corp outage", "ops@example.com", "2025-03-15T15:00:00Z", "hash", rawPath, "fetched")
	if err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	proc := NewProcessingService(db, cfg, store)
	res, err := proc.ProcessEmail(email)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Incident {
		t.Fatal("no incident recorded")
	}

	after, err := db.MustEmailByProviderMessageID("imap", "<fixture-1@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if after.Status != "processed" {
		t.Fatalf("status = %q, want processed", after.Status)
	}

	row, err := db.GetReportRow(email.ID)
	if err != nil {
		t.Fatal(err)
	}
	if row == nil {
		t.Fatal("no report row")
	}
	if row.Reference == nil || *row.Reference != "INC-2025-00123" {
		t.Errorf("reference = %v", row.Reference)
	}
	if row.Company == nil || *row.Company != "Acme Corp" {
		t.Errorf("company = %v", row.Company)
	}
	if row.Status == nil || *row.Status != "Resolved" {
		t.Errorf("status = %v", row.Status)
	}
	if row.OccurredAt == nil {
		t.Error("no occurredAt")
	}

	mappings, err := store.ReportMappings()
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(tmp, "report.xlsx")
	if err := AppendReportRows(mappings["incidents"], []internal.ReportRow{*row}, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
}
