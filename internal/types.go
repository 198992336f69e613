package internal

import "time"

// Sources a body fragment can come from.
const (
	SourceEmailText = "email_text"
	SourceEmailHTML = "email_html"
	SourcePDF       = "pdf"
	SourceXLSX      = "xlsx"
)

// BodyPart is one text fragment recovered from a message: the plain or
// HTML body, or the text of a supported attachment.
type BodyPart struct {
	Source     string
	Attachment *string
	Text       string
}

// FetchedMailMessage is a message pulled from a mail provider before it
// is persisted.
type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

// EmailRow mirrors a row of the emails table.
type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

// IncidentRecord is the extraction outcome persisted for an email.
type IncidentRecord struct {
	EmailID     int
	Company     *string
	Reference   *string
	OccurredAt  *time.Time
	Keywords    map[string][]string
	Extracted   map[string]string
	Fields      map[string]string
	Description string
}

// ReportRow is an incident flattened for the XLSX report writer.
type ReportRow struct {
	EmailID     int
	Subject     string
	Sender      string
	ReceivedAt  string
	Company     *string
	Reference   *string
	OccurredAt  *time.Time
	Description string
	Status      *string
	Priority    *string
}
