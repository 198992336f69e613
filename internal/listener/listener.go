package listener

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kianwoon/report-population-tool/internal"
	"github.com/kianwoon/report-population-tool/internal/catalog"
	"github.com/kianwoon/report-population-tool/internal/config"
	"github.com/kianwoon/report-population-tool/internal/connectors"
	gmailconnector "github.com/kianwoon/report-population-tool/internal/connectors/gmail"
	imapconnector "github.com/kianwoon/report-population-tool/internal/connectors/imap"
	"github.com/kianwoon/report-population-tool/internal/pipeline"
	"github.com/kianwoon/report-population-tool/internal/storage"
)

// Service is the polling loop: fetch new mail, run extraction over the
// pending batch and append processed incidents to the XLSX report.
type Service struct {
	db    *storage.DB
	cfg   config.Config
	store *catalog.Store
}

func NewService(db *storage.DB, cfg config.Config, store *catalog.Store) *Service {
	return &Service{db: db, cfg: cfg, store: store}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(); err != nil {
			fmt.Printf("listener cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.ListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle() error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.ListenerProvider))
	mailConnector, err := s.makeConnector(provider)
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector, time.Duration(s.cfg.MailFetchMinIntervalSec)*time.Second)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.ListenerLabel, s.cfg.ListenerFetchMax)
	if err != nil {
		return err
	}

	processor := pipeline.NewProcessingService(s.db, s.cfg, s.store)
	processed, incidents, err := processor.ProcessPending(s.cfg.ListenerProcessBatch, provider)
	if err != nil {
		return err
	}

	exported := 0
	if s.cfg.ListenerAutoExport {
		exported, err = s.exportProcessed(provider)
		if err != nil {
			return err
		}
	}

	fmt.Printf("listener cycle done provider=%s fetched=%d stored=%d processed=%d incidents=%d exported=%d\n",
		provider, fetchResult.Fetched, fetchResult.Stored, processed, incidents, exported)
	return nil
}

// exportProcessed appends every processed email's incident to the report
// and flips its status to exported.
func (s *Service) exportProcessed(provider string) (int, error) {
	emails, err := s.db.ListEmailsByStatus("processed", 200)
	if err != nil {
		return 0, err
	}

	mappings, err := s.store.ReportMappings()
	if err != nil {
		return 0, err
	}
	mapping, ok := mappings["incidents"]
	if !ok {
		return 0, fmt.Errorf("no incidents report mapping configured")
	}

	rows := make([]internal.ReportRow, 0, len(emails))
	exportedIDs := make([]int, 0, len(emails))
	for _, email := range emails {
		if email.Provider != provider {
			continue
		}
		row, err := s.db.GetReportRow(email.ID)
		if err != nil {
			return 0, err
		}
		if row == nil {
			continue
		}
		rows = append(rows, *row)
		exportedIDs = append(exportedIDs, email.ID)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if err := pipeline.AppendReportRows(mapping, rows, s.cfg.ReportPath); err != nil {
		return 0, err
	}
	for _, id := range exportedIDs {
		_ = s.db.UpdateEmailStatus(id, "exported")
	}
	return len(rows), nil
}

func (s *Service) makeConnector(provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", provider)
	}
}
