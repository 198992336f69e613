package pipeline

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"github.com/kianwoon/report-population-tool/internal"
	"github.com/kianwoon/report-population-tool/internal/util"
)

// ExtractBody turns a raw RFC 822 message into the text fragments the
// extraction engine will scan: the plain body, a flattened HTML body when
// no plain part exists, and text recovered from PDF/XLSX attachments.
// Returns the fragments and the message subject.
func ExtractBody(raw []byte) ([]internal.BodyPart, string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, "", err
	}

	parts := make([]internal.BodyPart, 0, 1+len(env.Attachments))
	if strings.TrimSpace(env.Text) != "" {
		parts = append(parts, internal.BodyPart{Source: internal.SourceEmailText, Text: env.Text})
	} else if env.HTML != "" {
		if text := htmlToText(env.HTML); text != "" {
			parts = append(parts, internal.BodyPart{Source: internal.SourceEmailHTML, Text: text})
		}
	}

	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		lower := strings.ToLower(filename)

		switch {
		case strings.HasSuffix(lower, ".pdf"):
			if text, err := pdfText(att.Content); err == nil && text != "" {
				parts = append(parts, internal.BodyPart{Source: internal.SourcePDF, Attachment: util.StringPtr(filename), Text: text})
			}
		case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
			if text, err := xlsxText(att.Content); err == nil && text != "" {
				parts = append(parts, internal.BodyPart{Source: internal.SourceXLSX, Attachment: util.StringPtr(filename), Text: text})
			}
		}
	}

	return parts, env.GetHeader("Subject"), nil
}

// CombinedText joins every fragment into the single blob handed to the
// extraction engine.
func CombinedText(parts []internal.BodyPart) string {
	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		texts = append(texts, part.Text)
	}
	return strings.Join(texts, "\n\n")
}

// htmlToText flattens an HTML body into line-oriented text so the
// label/value conventions survive for the pattern cascades. Leaf block
// elements become lines; nested blocks are skipped to avoid duplicating
// their children.
func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script,style").Remove()

	var lines []string
	doc.Find("p,li,td,th,h1,h2,h3,h4,h5,h6,div").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Filter("p,li,td,th,div,table,ul,ol").Length() > 0 {
			return
		}
		if text := normalizeSpaces(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})

	if len(lines) == 0 {
		return normalizeSpaces(doc.Text())
	}
	return strings.Join(lines, "\n")
}

func pdfText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

func xlsxText(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if c := normalizeSpaces(cell); c != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " "))
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

var reWhitespace = regexp.MustCompile(`\s+`)

func normalizeSpaces(input string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(input, " "))
}
