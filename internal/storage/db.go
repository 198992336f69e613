package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kianwoon/report-population-tool/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS emails (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS incidents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  emailId INTEGER NOT NULL UNIQUE,
  company TEXT,
  reference TEXT,
  occurredAt TEXT,
  keywordsJson TEXT NOT NULL,
  extractedJson TEXT NOT NULL,
  fieldsJson TEXT NOT NULL,
  description TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(emailId) REFERENCES emails(id)
);
CREATE INDEX IF NOT EXISTS idx_incidents_reference ON incidents(reference);
CREATE INDEX IF NOT EXISTS idx_incidents_company ON incidents(company);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  emailId INTEGER,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(emailId) REFERENCES emails(id)
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertEmail(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.EmailRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO emails (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.EmailRow{}, err
	}

	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, errors.New("failed to upsert email")
	}
	return *row, nil
}

func (d *DB) GetEmailByProviderMessageID(provider, messageID string) (*internal.EmailRow, error) {
	var row internal.EmailRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE provider = ? AND messageId = ?
`, provider, messageID).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) MustEmailByProviderMessageID(provider, messageID string) (internal.EmailRow, error) {
	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, fmt.Errorf("email not found: provider=%s messageId=%s", provider, messageID)
	}
	return *row, nil
}

func (d *DB) ListEmailsByStatus(status string, limit int) ([]internal.EmailRow, error) {
	rows, err := d.conn.Query(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EmailRow
	for rows.Next() {
		var row internal.EmailRow
		if err := rows.Scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateEmailStatus(emailID int, status string) error {
	_, err := d.conn.Exec(`UPDATE emails SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, emailID)
	return err
}

// ClearIncident removes any previous extraction outcome for an email so
// reprocessing starts clean.
func (d *DB) ClearIncident(emailID int) error {
	_, err := d.conn.Exec(`DELETE FROM incidents WHERE emailId = ?`, emailID)
	return err
}

func (d *DB) InsertIncident(rec internal.IncidentRecord) (int, error) {
	keywordsJSON, _ := json.Marshal(rec.Keywords)
	extractedJSON, _ := json.Marshal(rec.Extracted)
	fieldsJSON, _ := json.Marshal(rec.Fields)

	var occurredAt *string
	if rec.OccurredAt != nil {
		v := rec.OccurredAt.Format(time.RFC3339)
		occurredAt = &v
	}

	res, err := d.conn.Exec(`
INSERT INTO incidents (emailId, company, reference, occurredAt, keywordsJson, extractedJson, fieldsJson, description)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, rec.EmailID, rec.Company, rec.Reference, occurredAt, string(keywordsJSON), string(extractedJSON), string(fieldsJSON), rec.Description)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (d *DB) InsertRun(traceID string, emailID int, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`
INSERT INTO runs (traceId, emailId, timingsJson, countsJson) VALUES (?, ?, ?, ?)
`, traceID, emailID, string(timingsJSON), string(countsJSON))
	return err
}

// GetReportRow joins the email with its incident record and flattens it
// for the XLSX writer. Status and priority come out of the extracted
// label→value data when present.
func (d *DB) GetReportRow(emailID int) (*internal.ReportRow, error) {
	var row internal.ReportRow
	var occurredAt *string
	var extractedJSON string
	err := d.conn.QueryRow(`
SELECT e.id, e.subject, e.sender, e.receivedAt,
       i.company, i.reference, i.occurredAt, i.description, i.extractedJson
FROM emails e
JOIN incidents i ON i.emailId = e.id
WHERE e.id = ?
`, emailID).Scan(
		&row.EmailID, &row.Subject, &row.Sender, &row.ReceivedAt,
		&row.Company, &row.Reference, &occurredAt, &row.Description, &extractedJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if occurredAt != nil {
		if ts, err := time.Parse(time.RFC3339, *occurredAt); err == nil {
			row.OccurredAt = &ts
		}
	}

	var extracted map[string]string
	_ = json.Unmarshal([]byte(extractedJSON), &extracted)
	if v, ok := extracted["Status"]; ok {
		row.Status = &v
	}
	if v, ok := extracted["Priority"]; ok {
		row.Priority = &v
	}

	return &row, nil
}
