package pipeline

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/kianwoon/report-population-tool/internal"
)

const plainEmail = "From: ops@example.com\r\n" +
	"To: reports@example.com\r\n" +
	"Subject: Incident INC-2025-00123\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Company: Acme Corp\r\n" +
	"Status: Resolved\r\n"

func TestExtractBodyPlainText(t *testing.T) {
	parts, subject, err := ExtractBody([]byte(plainEmail))
	if err != nil {
		t.Fatalf("ExtractBody: %v", err)
	}
	if subject != "Incident INC-2025-00123" {
		t.Errorf("subject = %q", subject)
	}
	if len(parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(parts))
	}
	if parts[0].Source != internal.SourceEmailText {
		t.Errorf("source = %q, want %q", parts[0].Source, internal.SourceEmailText)
	}
	if !strings.Contains(parts[0].Text, "Company: Acme Corp") {
		t.Errorf("body text missing label line: %q", parts[0].Text)
	}
}

func TestCombinedText(t *testing.T) {
	parts := []internal.BodyPart{
		{Source: internal.SourceEmailText, Text: "Company: Acme Corp"},
		{Source: internal.SourcePDF, Text: "Reference: INC-2025-00123"},
	}
	got := CombinedText(parts)
	want := "Company: Acme Corp\n\nReference: INC-2025-00123"
	if got != want {
		t.Errorf("CombinedText = %q, want %q", got, want)
	}
}

func TestHTMLToText(t *testing.T) {
	html := `<html><body>
<style>p { color: red }</style>
<p>Company: Acme Corp</p>
<div>Status: <b>Open</b></div>
<table><tr><td>Priority:</td><td>High</td></tr></table>
</body></html>`

	got := htmlToText(html)
	lines := strings.Split(got, "\n")
	want := []string{"Company: Acme Corp", "Status: Open", "Priority:", "High"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(lines), lines, len(want))
	}
	for i, line := range lines {
		if line != want[i] {
			t.Errorf("line %d = %q, want %q", i, line, want[i])
		}
	}
}

func TestHTMLToTextSkipsNestedBlocks(t *testing.T) {
	html := `<div><div>inner only</div></div>`
	got := htmlToText(html)
	if got != "inner only" {
		t.Errorf("htmlToText = %q, want %q", got, "inner only")
	}
}

func TestXLSXText(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "Reference")
	_ = f.SetCellValue("Sheet1", "B1", "INC-2025-00123")
	_ = f.SetCellValue("Sheet1", "A2", "Company")
	_ = f.SetCellValue("Sheet1", "B2", "Acme Corp")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	got, err := xlsxText(buf.Bytes())
	if err != nil {
		t.Fatalf("xlsxText: %v", err)
	}
	want := "Reference INC-2025-00123\nCompany Acme Corp"
	if got != want {
		t.Errorf("xlsxText = %q, want %q", got, want)
	}
}
