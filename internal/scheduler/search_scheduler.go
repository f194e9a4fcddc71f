package scheduler

import (
	"context"

	"github.com/Jbmanllr/rental-catalog/internal/search"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"github.com/robfig/cron/v3"
)

// SearchScheduler rebuilds the rental search index on a cron schedule.
type SearchScheduler struct {
	cron      *cron.Cron
	reindexer *search.Reindexer
	spec      string
}

func NewSearchScheduler(reindexer *search.Reindexer, spec string) *SearchScheduler {
	if spec == "" {
		// Nightly at 3:00 AM by default.
		spec = "0 3 * * *"
	}
	return &SearchScheduler{
		cron:      cron.New(),
		reindexer: reindexer,
		spec:      spec,
	}
}

func (s *SearchScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Starting scheduled search reindex", nil)

		if err := s.reindexer.ReindexAll(context.Background()); err != nil {
			logger.Error("Scheduled search reindex failed", err)
			return
		}

		logger.Info("Scheduled search reindex finished", nil)
	})
	if err != nil {
		logger.Error("Failed to add cron job for search reindex", err)
		return err
	}

	s.cron.Start()
	logger.Info("Search reindex scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

func (s *SearchScheduler) Stop() {
	logger.Info("Stopping search reindex scheduler...", nil)
	s.cron.Stop()
	logger.Info("Search reindex scheduler stopped", nil)
}
