package pipeline

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kianwoon/report-population-tool/internal"
	"github.com/kianwoon/report-population-tool/internal/catalog"
	"github.com/kianwoon/report-population-tool/internal/util"
)

func testMapping() catalog.ReportMapping {
	return catalog.ReportMapping{
		SheetName: "Incidents",
		Columns: map[string]string{
			"date":        "Date",
			"company":     "Company",
			"reference":   "Reference",
			"description": "Description",
		},
	}
}

func testReportRow() internal.ReportRow {
	occurred := time.Date(2025, 3, 15, 14, 30, 0, 0, time.Local)
	return internal.ReportRow{
		EmailID:     1,
		Subject:     "Service outage",
		Sender:      "ops@example.com",
		Company:     util.StringPtr("Acme Corp"),
		Reference:   util.StringPtr("INC-2025-00123"),
		OccurredAt:  util.TimePtr(occurred),
		Description: "Checkout unavailable",
	}
}

func TestAppendReportRowsCreatesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.xlsx")
	if err := AppendReportRows(testMapping(), []internal.ReportRow{testReportRow()}, out); err != nil {
		t.Fatalf("AppendReportRows: %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Incidents")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}

	// Columns follow sorted field-name order.
	header := []string{"Company", "Date", "Description", "Reference"}
	for i, want := range header {
		if rows[0][i] != want {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], want)
		}
	}
	data := []string{"Acme Corp", "2025-03-15 14:30", "Checkout unavailable", "INC-2025-00123"}
	for i, want := range data {
		if rows[1][i] != want {
			t.Errorf("row[%d] = %q, want %q", i, rows[1][i], want)
		}
	}

	if idx, _ := f.GetSheetIndex("Sheet1"); idx >= 0 {
		t.Errorf("default sheet not removed")
	}
}

func TestAppendReportRowsAppends(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.xlsx")
	mapping := testMapping()

	if err := AppendReportRows(mapping, []internal.ReportRow{testReportRow()}, out); err != nil {
		t.Fatalf("first append: %v", err)
	}
	second := testReportRow()
	second.Reference = util.StringPtr("INC-2025-00456")
	if err := AppendReportRows(mapping, []internal.ReportRow{second}, out); err != nil {
		t.Fatalf("second append: %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Incidents")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[2][3] != "INC-2025-00456" {
		t.Errorf("appended reference = %q", rows[2][3])
	}
}

func TestReportValueMissingOptionals(t *testing.T) {
	row := internal.ReportRow{Subject: "no incident fields"}
	for _, field := range []string{"date", "company", "reference", "status", "priority"} {
		if got := reportValue(row, field); got != "" {
			t.Errorf("reportValue(%q) = %v, want empty", field, got)
		}
	}
	if got := reportValue(row, "subject"); got != "no incident fields" {
		t.Errorf("subject = %v", got)
	}
}
