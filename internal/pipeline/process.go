package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kianwoon/report-population-tool/internal"
	"github.com/kianwoon/report-population-tool/internal/catalog"
	"github.com/kianwoon/report-population-tool/internal/config"
	"github.com/kianwoon/report-population-tool/internal/parser"
	"github.com/kianwoon/report-population-tool/internal/storage"
)

type ProcessingService struct {
	db    *storage.DB
	cfg   config.Config
	store *catalog.Store
}

func NewProcessingService(db *storage.DB, cfg config.Config, store *catalog.Store) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg, store: store}
}

type ProcessResult struct {
	EmailID  int
	Incident bool
}

func (s *ProcessingService) ProcessByProviderMessageID(provider, messageID string) (ProcessResult, error) {
	email, err := s.db.MustEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessEmail(email)
}

// ProcessPending runs extraction over fetched emails, oldest first.
// Returns how many emails were processed and how many yielded an incident
// record.
func (s *ProcessingService) ProcessPending(limit int, provider string) (int, int, error) {
	pending, err := s.db.ListEmailsByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processed := 0
	incidents := 0
	for _, email := range pending {
		if provider != "" && email.Provider != provider {
			continue
		}
		res, err := s.ProcessEmail(email)
		if err != nil {
			return processed, incidents, err
		}
		processed++
		if res.Incident {
			incidents++
		}
	}
	return processed, incidents, nil
}

func (s *ProcessingService) ProcessEmail(email internal.EmailRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(email.RawRef)
	if err != nil {
		return ProcessResult{}, err
	}

	parts, subject, err := ExtractBody(raw)
	if err != nil {
		return ProcessResult{}, err
	}
	subject = firstNonEmpty(subject, email.Subject)
	text := CombinedText(parts)

	if err := s.db.ClearIncident(email.ID); err != nil {
		return ProcessResult{}, err
	}

	detect := DetectIncidentReport(subject, text)
	if !detect.IsIncident {
		_ = s.db.UpdateEmailStatus(email.ID, "skipped")
		_ = s.db.InsertRun(traceID(), email.ID, timings(start), map[string]int{"parts": len(parts), "incidents": 0})
		return ProcessResult{EmailID: email.ID, Incident: false}, nil
	}

	// Catalog problems (bad field pattern, torn JSON) abort processing:
	// they are configuration errors, not message failures.
	engineCfg, err := s.store.EngineConfig()
	if err != nil {
		return ProcessResult{}, err
	}

	result := parser.ExtractStructured(text, engineCfg)
	rec := toIncidentRecord(email.ID, subject, result)
	if _, err := s.db.InsertIncident(rec); err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.UpdateEmailStatus(email.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}

	counts := map[string]int{
		"parts":      len(parts),
		"incidents":  1,
		"keywords":   len(result.MatchedKeywords),
		"categories": len(result.Keywords),
		"fields":     len(result.Fields),
	}
	_ = s.db.InsertRun(traceID(), email.ID, timings(start), counts)

	return ProcessResult{EmailID: email.ID, Incident: true}, nil
}

func toIncidentRecord(emailID int, subject string, result parser.Result) internal.IncidentRecord {
	description := subject
	if v, ok := result.ExtractedData["Description"]; ok {
		description = v
	}
	return internal.IncidentRecord{
		EmailID:     emailID,
		Company:     result.Company,
		Reference:   result.Reference,
		OccurredAt:  result.DateTime,
		Keywords:    result.Keywords,
		Extracted:   result.ExtractedData,
		Fields:      result.Fields,
		Description: description,
	}
}

func timings(start time.Time) map[string]float64 {
	return map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
