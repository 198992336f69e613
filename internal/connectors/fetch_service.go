package connectors

import (
	"time"

	"github.com/kianwoon/report-population-tool/internal/storage"
	"github.com/kianwoon/report-population-tool/internal/util"
)

type FetchService struct {
	db        *storage.DB
	connector MailConnector
	store     *MailStoreService
	limiter   *util.RateLimiter
}

type FetchResult struct {
	Fetched int
	Stored  int
}

func NewFetchService(db *storage.DB, rawMailDir string, connector MailConnector, minInterval time.Duration) *FetchService {
	return &FetchService{
		db:        db,
		connector: connector,
		store:     NewMailStoreService(db, rawMailDir),
		limiter:   util.NewRateLimiter(minInterval),
	}
}

func (s *FetchService) FetchAndStore(label string, max int) (FetchResult, error) {
	s.limiter.WaitTurn()

	messages, err := s.connector.FetchInbox(label, max)
	if err != nil {
		return FetchResult{}, err
	}

	stored := 0
	for _, msg := range messages {
		if _, err := s.store.Store(msg); err != nil {
			return FetchResult{}, err
		}
		stored++
	}

	return FetchResult{Fetched: len(messages), Stored: stored}, nil
}
