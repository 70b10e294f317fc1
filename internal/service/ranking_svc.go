package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mandubird/ottsak/internal/model"
)

// MetadataProvider is the movie-database collaborator (TMDB in production).
type MetadataProvider interface {
	PopularInKorea(ctx context.Context, movieLimit, tvLimit int) ([]model.WorkMetadata, error)
	TrendingWorks(ctx context.Context, movieLimit, tvLimit int) ([]model.WorkMetadata, error)
	SearchByTitle(ctx context.Context, title string) (*model.WorkMetadata, error)
}

// WorkUpserter persists metadata rows keyed on the external id.
type WorkUpserter interface {
	Upsert(ctx context.Context, row model.WorkMetadata) (string, error)
}

// RankingStore persists ranking rows and feeds the monthly roll-up.
type RankingStore interface {
	UpsertWeekly(ctx context.Context, row model.WeeklyRanking) error
	UpsertMonthly(ctx context.Context, row model.MonthlyRanking) error
	WeeklyScoresBetween(ctx context.Context, from, to time.Time) ([]model.WeeklyScore, error)
}

// RankingConfig tunes the aggregation.
type RankingConfig struct {
	TopN           int
	CandidateLimit int
	// Delay between consecutive engagement queries.
	Delay time.Duration
}

func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		TopN:           10,
		CandidateLimit: 20,
		Delay:          300 * time.Millisecond,
	}
}

// RankingService builds the weekly Top-N from one-shot popularity queries
// and rolls weekly observations up into monthly rankings.
type RankingService struct {
	cfg        RankingConfig
	meta       MetadataProvider
	works      WorkUpserter
	rankings   RankingStore
	popularity *PopularityService
	log        zerolog.Logger
}

func NewRankingService(cfg RankingConfig, meta MetadataProvider, works WorkUpserter, rankings RankingStore, popularity *PopularityService, log zerolog.Logger) *RankingService {
	return &RankingService{
		cfg:        cfg,
		meta:       meta,
		works:      works,
		rankings:   rankings,
		popularity: popularity,
		log:        log,
	}
}

// WorkScore pairs a work with its aggregated score for one period.
type WorkScore struct {
	WorkID string
	Score  float64
}

// RankTopN sorts scores descending and assigns dense 1-based ranks to the
// first n entries. The sort is stable: equal scores keep their input order,
// so reruns over the same input produce identical ranks.
func RankTopN(scores []WorkScore, n int) []WorkScore {
	ranked := make([]WorkScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ComputeWeeklyRanking snapshots the current week: candidate works come from
// the metadata provider, each is scored by trailer engagement, and the Top-N
// is upserted keyed on (year, week, work). Recomputing the same week
// overwrites in place.
func (s *RankingService) ComputeWeeklyRanking(ctx context.Context, now time.Time) (model.WeeklySummary, error) {
	year, week := now.ISOWeek()
	summary := model.WeeklySummary{Year: year, Week: week}

	candidates, err := s.meta.PopularInKorea(ctx, s.cfg.CandidateLimit/2, s.cfg.CandidateLimit/2)
	if err != nil {
		return summary, fmt.Errorf("fetch candidates: %w", err)
	}
	if len(candidates) > s.cfg.CandidateLimit {
		candidates = candidates[:s.cfg.CandidateLimit]
	}

	type scored struct {
		meta  model.WorkMetadata
		score float64
	}
	scoredWorks := make([]scored, 0, len(candidates))
	for i, cand := range candidates {
		score, err := s.popularity.EngagementScore(ctx, cand.SearchTitle())
		if err != nil {
			return summary, err
		}
		scoredWorks = append(scoredWorks, scored{meta: cand, score: float64(score)})
		if i < len(candidates)-1 {
			sleepCtx(ctx, s.cfg.Delay)
		}
	}

	sort.SliceStable(scoredWorks, func(i, j int) bool {
		return scoredWorks[i].score > scoredWorks[j].score
	})
	if len(scoredWorks) > s.cfg.TopN {
		scoredWorks = scoredWorks[:s.cfg.TopN]
	}
	summary.Total = len(scoredWorks)

	for i, sw := range scoredWorks {
		workID, err := s.works.Upsert(ctx, sw.meta)
		if err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("work %s: %v", sw.meta.Title, err))
			continue
		}

		row := model.WeeklyRanking{
			WorkID: workID,
			Rank:   i + 1,
			Score:  sw.score,
			Week:   week,
			Year:   year,
		}
		if err := s.rankings.UpsertWeekly(ctx, row); err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("rank %s: %v", sw.meta.Title, err))
			continue
		}
		summary.Saved++
	}

	s.log.Info().
		Int("year", year).
		Int("week", week).
		Int("saved", summary.Saved).
		Int("errors", len(summary.Errors)).
		Msg("weekly ranking computed")

	return summary, nil
}

// ComputeMonthlyRanking rolls the previous calendar month's weekly
// observations into one ranking: per work, the arithmetic mean of its weekly
// scores; then the usual stable Top-N.
func (s *RankingService) ComputeMonthlyRanking(ctx context.Context, now time.Time) (model.MonthlySummary, error) {
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	firstOfLastMonth := firstOfThisMonth.AddDate(0, -1, 0)
	endOfLastMonth := firstOfThisMonth.Add(-time.Nanosecond)

	summary := model.MonthlySummary{
		Year:  firstOfLastMonth.Year(),
		Month: int(firstOfLastMonth.Month()),
	}

	observations, err := s.rankings.WeeklyScoresBetween(ctx, firstOfLastMonth, endOfLastMonth)
	if err != nil {
		return summary, fmt.Errorf("load weekly scores: %w", err)
	}

	averaged := AverageByWork(observations)
	ranked := RankTopN(averaged, s.cfg.TopN)

	for i, ws := range ranked {
		row := model.MonthlyRanking{
			WorkID: ws.WorkID,
			Rank:   i + 1,
			Score:  ws.Score,
			Month:  summary.Month,
			Year:   summary.Year,
		}
		if err := s.rankings.UpsertMonthly(ctx, row); err != nil {
			s.log.Error().Err(err).Str("work", ws.WorkID).Msg("monthly upsert failed")
			continue
		}
		summary.Count++
	}

	s.log.Info().
		Int("year", summary.Year).
		Int("month", summary.Month).
		Int("count", summary.Count).
		Msg("monthly ranking computed")

	return summary, nil
}

// AverageByWork folds weekly observations into one mean score per work,
// preserving first-seen order so that ties rank deterministically.
func AverageByWork(observations []model.WeeklyScore) []WorkScore {
	type acc struct {
		sum   float64
		count int
	}
	sums := make(map[string]*acc)
	var order []string

	for _, obs := range observations {
		a, ok := sums[obs.WorkID]
		if !ok {
			a = &acc{}
			sums[obs.WorkID] = a
			order = append(order, obs.WorkID)
		}
		a.sum += obs.Score
		a.count++
	}

	out := make([]WorkScore, 0, len(order))
	for _, id := range order {
		a := sums[id]
		out = append(out, WorkScore{WorkID: id, Score: a.sum / float64(a.count)})
	}
	return out
}
