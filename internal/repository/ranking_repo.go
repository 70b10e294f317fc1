package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mandubird/ottsak/internal/model"
)

type RankingRepo struct {
	pool *pgxpool.Pool
}

func NewRankingRepo(pool *pgxpool.Pool) *RankingRepo {
	return &RankingRepo{pool: pool}
}

// UpsertWeekly writes one weekly ranking row keyed on (year, week, work).
// Recomputing a period overwrites rank and score in place; rows for works
// that dropped out of the Top-N are left as they are.
func (r *RankingRepo) UpsertWeekly(ctx context.Context, row model.WeeklyRanking) error {
	query := `
		INSERT INTO weekly_rankings (work_id, rank, score, week, year)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (year, week, work_id) DO UPDATE SET
			rank = EXCLUDED.rank,
			score = EXCLUDED.score`

	_, err := r.pool.Exec(ctx, query, row.WorkID, row.Rank, row.Score, row.Week, row.Year)
	return err
}

// UpsertMonthly writes one monthly ranking row keyed on (year, month, work).
func (r *RankingRepo) UpsertMonthly(ctx context.Context, row model.MonthlyRanking) error {
	query := `
		INSERT INTO monthly_rankings (work_id, rank, score, month, year)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (year, month, work_id) DO UPDATE SET
			rank = EXCLUDED.rank,
			score = EXCLUDED.score`

	_, err := r.pool.Exec(ctx, query, row.WorkID, row.Rank, row.Score, row.Month, row.Year)
	return err
}

// WeeklyScoresBetween returns every weekly observation recorded in the
// given window, in insertion order so downstream aggregation stays
// deterministic.
func (r *RankingRepo) WeeklyScoresBetween(ctx context.Context, from, to time.Time) ([]model.WeeklyScore, error) {
	query := `
		SELECT work_id, score
		FROM weekly_rankings
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []model.WeeklyScore
	for rows.Next() {
		var s model.WeeklyScore
		if err := rows.Scan(&s.WorkID, &s.Score); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// GetWeekly returns a week's ranking joined with work rows, rank ascending.
func (r *RankingRepo) GetWeekly(ctx context.Context, year, week int) ([]model.RankingEntry, error) {
	query := `
		SELECT r.rank, r.score, w.id, w.slug, w.title, w.type, w.poster_url, w.platform
		FROM weekly_rankings r
		JOIN works w ON w.id = r.work_id
		WHERE r.year = $1 AND r.week = $2
		ORDER BY r.rank ASC`

	return r.queryEntries(ctx, query, year, week)
}

// GetMonthly returns a month's ranking joined with work rows, rank ascending.
func (r *RankingRepo) GetMonthly(ctx context.Context, year, month int) ([]model.RankingEntry, error) {
	query := `
		SELECT r.rank, r.score, w.id, w.slug, w.title, w.type, w.poster_url, w.platform
		FROM monthly_rankings r
		JOIN works w ON w.id = r.work_id
		WHERE r.year = $1 AND r.month = $2
		ORDER BY r.rank ASC`

	return r.queryEntries(ctx, query, year, month)
}

func (r *RankingRepo) queryEntries(ctx context.Context, query string, args ...any) ([]model.RankingEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.RankingEntry
	for rows.Next() {
		var e model.RankingEntry
		err := rows.Scan(&e.Rank, &e.Score, &e.WorkID, &e.Slug, &e.Title, &e.Type, &e.PosterURL, &e.Platform)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
