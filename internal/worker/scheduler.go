package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mandubird/ottsak/internal/service"
)

// Jobs are pinned to the platform's home market schedule: works and videos
// refresh nightly, rankings snapshot Monday mornings and on the 1st.
const (
	specMonthlyRanking = "0 1 1 * *" // 01:00 on the 1st
	specWeeklyRanking  = "0 2 * * 1" // 02:00 every Monday
	specDailySync      = "0 3 * * *" // 03:00 every day
)

// Scheduler drives the periodic jobs in-process via robfig/cron.
type Scheduler struct {
	cron     *cron.Cron
	ingest   *service.IngestService
	ranking  *service.RankingService
	worksync *service.WorkSyncService
	log      zerolog.Logger
}

// NewScheduler creates a scheduler in the given timezone.
func NewScheduler(timezone string, ingest *service.IngestService, ranking *service.RankingService, worksync *service.WorkSyncService, log zerolog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		ingest:   ingest,
		ranking:  ranking,
		worksync: worksync,
		log:      log,
	}, nil
}

// Start registers the jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(specDailySync, s.runDailySync); err != nil {
		return fmt.Errorf("add daily sync: %w", err)
	}
	if _, err := s.cron.AddFunc(specWeeklyRanking, s.runWeeklyRanking); err != nil {
		return fmt.Errorf("add weekly ranking: %w", err)
	}
	if _, err := s.cron.AddFunc(specMonthlyRanking, s.runMonthlyRanking); err != nil {
		return fmt.Errorf("add monthly ranking: %w", err)
	}

	s.cron.Start()
	s.log.Info().Msg("scheduler: started")
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler: stopped")
}

func (s *Scheduler) runDailySync() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	works, err := s.worksync.SyncTrendingWorks(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: work sync failed")
	} else {
		s.log.Info().Int("added", works.Added).Int("updated", works.Updated).
			Msg("scheduler: work sync complete")
	}

	videos, err := s.ingest.SyncRecentWorks(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: video sync failed")
		return
	}
	s.log.Info().Int("synced", videos.Synced).Int("pending", videos.Pending).
		Msg("scheduler: video sync complete")
}

func (s *Scheduler) runWeeklyRanking() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	summary, err := s.ranking.ComputeWeeklyRanking(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: weekly ranking failed")
		return
	}
	s.log.Info().Int("year", summary.Year).Int("week", summary.Week).
		Int("saved", summary.Saved).Msg("scheduler: weekly ranking complete")
}

func (s *Scheduler) runMonthlyRanking() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	summary, err := s.ranking.ComputeMonthlyRanking(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: monthly ranking failed")
		return
	}
	s.log.Info().Int("year", summary.Year).Int("month", summary.Month).
		Int("count", summary.Count).Msg("scheduler: monthly ranking complete")
}
