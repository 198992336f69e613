package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/kianwoon/report-population-tool/internal"
	"github.com/kianwoon/report-population-tool/internal/catalog"
)

// AppendReportRows populates the XLSX report according to the configured
// mapping: one column per mapped field, header row written once, incident
// rows appended below whatever the sheet already holds. The file is
// created when missing.
func AppendReportRows(mapping catalog.ReportMapping, rows []internal.ReportRow, outputPath string) error {
	f, created, err := openReport(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := mapping.SheetName
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if index < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	if created {
		// Drop the default sheet so the report only carries mapped sheets.
		if sheet != "Sheet1" {
			_ = f.DeleteSheet("Sheet1")
		}
	}

	fields := orderedFields(mapping.Columns)

	existing, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	next := len(existing) + 1
	if next == 1 {
		for i, field := range fields {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(sheet, cell, mapping.Columns[field])
		}
		next = 2
	}

	for _, row := range rows {
		for i, field := range fields {
			cell, _ := excelize.CoordinatesToCellName(i+1, next)
			_ = f.SetCellValue(sheet, cell, reportValue(row, field))
		}
		next++
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func openReport(path string) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		return f, false, err
	}
	return excelize.NewFile(), true, nil
}

// orderedFields sorts the mapped field names so column layout is stable
// across runs regardless of map iteration order.
func orderedFields(columns map[string]string) []string {
	fields := make([]string, 0, len(columns))
	for field := range columns {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func reportValue(row internal.ReportRow, field string) any {
	switch field {
	case "date":
		if row.OccurredAt != nil {
			return row.OccurredAt.Format("2006-01-02 15:04")
		}
		return ""
	case "company":
		return derefString(row.Company)
	case "reference":
		return derefString(row.Reference)
	case "description":
		return row.Description
	case "status":
		return derefString(row.Status)
	case "priority":
		return derefString(row.Priority)
	case "subject":
		return row.Subject
	case "sender":
		return row.Sender
	case "received":
		return row.ReceivedAt
	default:
		return ""
	}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
