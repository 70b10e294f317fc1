package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mandubird/ottsak/internal/model"
)

// WorkChecker reports whether a work is already known by its external id.
type WorkChecker interface {
	Upsert(ctx context.Context, row model.WorkMetadata) (string, error)
	ExistsByTMDBID(ctx context.Context, tmdbID int64) (bool, error)
}

// WorkSyncConfig tunes the catalog refresh.
type WorkSyncConfig struct {
	MovieLimit int
	TVLimit    int
	// Delay between consecutive title lookups during manual imports.
	Delay time.Duration
}

func DefaultWorkSyncConfig() WorkSyncConfig {
	return WorkSyncConfig{
		MovieLimit: 10,
		TVLimit:    10,
		Delay:      200 * time.Millisecond,
	}
}

// WorkSyncService refreshes the work catalog from the metadata provider.
type WorkSyncService struct {
	cfg   WorkSyncConfig
	meta  MetadataProvider
	works WorkChecker
	log   zerolog.Logger
}

func NewWorkSyncService(cfg WorkSyncConfig, meta MetadataProvider, works WorkChecker, log zerolog.Logger) *WorkSyncService {
	return &WorkSyncService{cfg: cfg, meta: meta, works: works, log: log}
}

// SyncTrendingWorks pulls the current trending movies and shows and upserts
// them into the catalog. Rows already present count as updates.
func (s *WorkSyncService) SyncTrendingWorks(ctx context.Context) (model.SyncWorksSummary, error) {
	var summary model.SyncWorksSummary

	rows, err := s.meta.TrendingWorks(ctx, s.cfg.MovieLimit, s.cfg.TVLimit)
	if err != nil {
		return summary, fmt.Errorf("fetch trending: %w", err)
	}
	summary.Total = len(rows)

	for _, row := range rows {
		existed, err := s.works.ExistsByTMDBID(ctx, row.TMDBID)
		if err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("check %s: %v", row.Title, err))
			continue
		}
		if _, err := s.works.Upsert(ctx, row); err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("upsert %s: %v", row.Title, err))
			continue
		}
		if existed {
			summary.Updated++
		} else {
			summary.Added++
		}
	}

	s.log.Info().
		Int("total", summary.Total).
		Int("added", summary.Added).
		Int("updated", summary.Updated).
		Int("errors", len(summary.Errors)).
		Msg("work catalog synced")

	return summary, nil
}

// ImportWorksByTitle looks each title up with the metadata provider and
// upserts the best hit. Titles with no hit are skipped, not errors.
func (s *WorkSyncService) ImportWorksByTitle(ctx context.Context, titles []string) (model.SyncWorksSummary, error) {
	var summary model.SyncWorksSummary
	summary.Total = len(titles)

	for i, title := range titles {
		row, err := s.meta.SearchByTitle(ctx, title)
		if err != nil {
			return summary, err
		}
		if row == nil {
			summary.Skipped++
			s.log.Debug().Str("title", title).Msg("no metadata hit, skipping")
			continue
		}
		if _, err := s.works.Upsert(ctx, *row); err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("upsert %s: %v", title, err))
			continue
		}
		summary.Added++
		if i < len(titles)-1 {
			sleepCtx(ctx, s.cfg.Delay)
		}
	}

	return summary, nil
}
