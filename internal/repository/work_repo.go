package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mandubird/ottsak/internal/model"
)

type WorkRepo struct {
	pool *pgxpool.Pool
}

func NewWorkRepo(pool *pgxpool.Pool) *WorkRepo {
	return &WorkRepo{pool: pool}
}

const workColumns = `
	id, slug, title, title_en, type, genre, platform, release_date,
	manual_video_ids, rating, poster_url, backdrop_url, overview,
	tmdb_id, view_count, is_featured, created_at, updated_at`

// Upsert writes a metadata row keyed on tmdb_id and returns the work id.
// The slug is assigned on insert and never rewritten: it is part of public
// URLs and must stay stable across metadata refreshes.
func (r *WorkRepo) Upsert(ctx context.Context, row model.WorkMetadata) (string, error) {
	query := `
		INSERT INTO works (slug, title, title_en, type, genre, platform, release_date,
		                   rating, poster_url, backdrop_url, overview, tmdb_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (tmdb_id) DO UPDATE SET
			title = EXCLUDED.title,
			title_en = EXCLUDED.title_en,
			type = EXCLUDED.type,
			genre = EXCLUDED.genre,
			platform = EXCLUDED.platform,
			release_date = EXCLUDED.release_date,
			rating = EXCLUDED.rating,
			poster_url = EXCLUDED.poster_url,
			backdrop_url = EXCLUDED.backdrop_url,
			overview = EXCLUDED.overview,
			updated_at = NOW()
		RETURNING id`

	var id string
	err := r.pool.QueryRow(ctx, query,
		row.Slug, row.Title, row.TitleEN, row.Type, row.Genre, row.Platform,
		row.ReleaseDate, row.Rating, row.PosterURL, row.BackdropURL,
		row.Overview, row.TMDBID,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ExistsByTMDBID reports whether a work with the given external id is known.
func (r *WorkRepo) ExistsByTMDBID(ctx context.Context, tmdbID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM works WHERE tmdb_id = $1)`, tmdbID).Scan(&exists)
	return exists, err
}

// ListRecent returns works created since the given time, newest first.
// Used by the ingestion batch to limit API spend to fresh works.
func (r *WorkRepo) ListRecent(ctx context.Context, since time.Time, limit int) ([]model.Work, error) {
	query := `
		SELECT ` + workColumns + `
		FROM works
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorks(rows)
}

// ListOptions narrows and orders the works listing.
type ListOptions struct {
	Genre string
	Type  string
	Sort  string // latest | popular | rating
	Limit int
	Page  int
}

// List returns a filtered page of works plus the unfiltered-by-page total.
func (r *WorkRepo) List(ctx context.Context, opts ListOptions) ([]model.Work, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if opts.Genre != "" {
		args = append(args, opts.Genre)
		where += ` AND $` + strconv.Itoa(len(args)) + ` = ANY(genre)`
	}
	if opts.Type != "" {
		args = append(args, opts.Type)
		where += ` AND type = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM works`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := ` ORDER BY release_date DESC NULLS LAST`
	switch opts.Sort {
	case "popular":
		order = ` ORDER BY view_count DESC`
	case "rating":
		order = ` ORDER BY rating DESC NULLS LAST`
	}

	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	query := `SELECT ` + workColumns + ` FROM works` + where + order +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	works, err := scanWorks(rows)
	return works, total, err
}

// FindBySlug returns one work by its URL slug.
func (r *WorkRepo) FindBySlug(ctx context.Context, slug string) (*model.Work, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+workColumns+` FROM works WHERE slug = $1`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	works, err := scanWorks(rows)
	if err != nil {
		return nil, err
	}
	if len(works) == 0 {
		return nil, nil
	}
	return &works[0], nil
}

// IncrementViewCount bumps the rolling popularity counter for a work.
func (r *WorkRepo) IncrementViewCount(ctx context.Context, workID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE works SET view_count = view_count + 1 WHERE id = $1`, workID)
	return err
}

// SetManualVideoIDs replaces the pinned video list for a work.
func (r *WorkRepo) SetManualVideoIDs(ctx context.Context, workID string, videoIDs []string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE works SET manual_video_ids = $1, updated_at = NOW() WHERE id = $2`,
		videoIDs, workID)
	return err
}

func scanWorks(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]model.Work, error) {
	var works []model.Work
	for rows.Next() {
		var w model.Work
		err := rows.Scan(
			&w.ID, &w.Slug, &w.Title, &w.TitleEN, &w.Type, &w.Genre, &w.Platform,
			&w.ReleaseDate, &w.ManualVideoIDs, &w.Rating, &w.PosterURL,
			&w.BackdropURL, &w.Overview, &w.TMDBID, &w.ViewCount, &w.IsFeatured,
			&w.CreatedAt, &w.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		works = append(works, w)
	}
	return works, rows.Err()
}
