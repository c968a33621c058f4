package services

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/Prince5598/Cloud-Storage/blobstore"
	"github.com/Prince5598/Cloud-Storage/config"
	"github.com/Prince5598/Cloud-Storage/metrics"
	"github.com/Prince5598/Cloud-Storage/repositories"

	"github.com/rs/zerolog/log"
)

const (
	defaultOrphanBatchSize   = 50
	defaultOrphanMaxAttempts = 5
	defaultOrphanInterval    = 5 * time.Minute
)

type CleanupReport struct {
	Attempted int `json:"attempted"`
	Deleted   int `json:"deleted"`
	Requeued  int `json:"requeued"`
	Dropped   int `json:"dropped"`
}

// CleanupService retries blob deletions that failed during permanent delete
// or empty trash.
type CleanupService interface {
	RetryOrphans(ctx context.Context) (CleanupReport, error)
	PendingOrphans(ctx context.Context) (int64, error)
}

type cleanupService struct {
	orphans     repositories.OrphanBlobQueue
	cleaner     blobCleaner
	batchSize   int
	maxAttempts int
}

func NewCleanupService(store blobstore.Store, orphans repositories.OrphanBlobQueue, batchSize, maxAttempts int) CleanupService {
	if batchSize <= 0 {
		batchSize = defaultOrphanBatchSize
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultOrphanMaxAttempts
	}
	return &cleanupService{
		orphans:     orphans,
		cleaner:     blobCleaner{store: store},
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
	}
}

func (s *cleanupService) RetryOrphans(ctx context.Context) (CleanupReport, error) {
	var report CleanupReport
	if s.orphans == nil || s.cleaner.store == nil {
		return report, nil
	}

	batch, err := s.orphans.PopBatch(ctx, s.batchSize)
	if err != nil {
		return report, err
	}

	for _, blob := range batch {
		report.Attempted++
		err := s.cleaner.deleteByKey(ctx, blob.Key)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			report.Deleted++
			metrics.Get().RecordBlobCleanup("deleted")
			continue
		}

		blob.Attempts++
		if blob.Attempts >= s.maxAttempts {
			report.Dropped++
			metrics.Get().RecordBlobCleanup("failed")
			log.Error().Err(err).Str("key", blob.Key).Int("attempts", blob.Attempts).Msg("giving up on orphan blob")
			continue
		}
		if pushErr := s.orphans.Push(ctx, blob); pushErr != nil {
			report.Dropped++
			log.Error().Err(pushErr).Str("key", blob.Key).Msg("failed to requeue orphan blob")
			continue
		}
		report.Requeued++
		metrics.Get().RecordBlobCleanup("requeued")
	}

	if report.Attempted > 0 {
		log.Info().Int("attempted", report.Attempted).Int("deleted", report.Deleted).
			Int("requeued", report.Requeued).Int("dropped", report.Dropped).Msg("orphan blob pass finished")
	}
	return report, nil
}

func (s *cleanupService) PendingOrphans(ctx context.Context) (int64, error) {
	if s.orphans == nil {
		return 0, nil
	}
	return s.orphans.Len(ctx)
}

// StartCleanupWorkers runs orphan retries in the background until ctx is done.
func StartCleanupWorkers(ctx context.Context, cleanup CleanupService) {
	go orphanCleanupLoop(ctx, cleanup)
}

func orphanCleanupLoop(ctx context.Context, cleanup CleanupService) {
	interval := defaultOrphanInterval
	if config.AppConfig != nil && config.AppConfig.Lifecycle.OrphanRetryInterval > 0 {
		interval = time.Duration(config.AppConfig.Lifecycle.OrphanRetryInterval) * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := cleanup.RetryOrphans(ctx); err != nil {
				log.Warn().Err(err).Msg("orphan blob pass failed")
			}
		}
	}
}
