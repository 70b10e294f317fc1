package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mandubird/ottsak/internal/model"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

// Upsert writes a video keyed on its global youtube_id. A video seen again
// (possibly matched to a different work) is overwritten, never duplicated.
func (r *VideoRepo) Upsert(ctx context.Context, v model.Video) error {
	query := `
		INSERT INTO videos (work_id, youtube_id, title, video_type, thumbnail_url,
		                    channel_name, view_count, duration_sec, match_score, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (youtube_id) DO UPDATE SET
			work_id = EXCLUDED.work_id,
			title = EXCLUDED.title,
			video_type = EXCLUDED.video_type,
			thumbnail_url = EXCLUDED.thumbnail_url,
			channel_name = EXCLUDED.channel_name,
			view_count = EXCLUDED.view_count,
			duration_sec = EXCLUDED.duration_sec,
			match_score = EXCLUDED.match_score,
			published_at = EXCLUDED.published_at`

	_, err := r.pool.Exec(ctx, query,
		v.WorkID, v.YouTubeID, v.Title, v.Type, v.ThumbnailURL,
		v.ChannelName, v.ViewCount, v.DurationSec, v.MatchScore, v.PublishedAt)
	return err
}

// InsertPending records an ambiguous candidate for manual review. A repeat
// sighting of the same video id is a no-op; the core never updates pending
// rows.
func (r *VideoRepo) InsertPending(ctx context.Context, p model.PendingVideo) error {
	query := `
		INSERT INTO pending_videos (youtube_id, title, guessed_work_title, match_score, raw_data, reviewed)
		VALUES ($1, $2, $3, $4, $5, false)
		ON CONFLICT (youtube_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query,
		p.YouTubeID, p.Title, p.GuessedWorkTitle, p.MatchScore, p.RawData)
	return err
}

const videoColumns = `
	id, work_id, youtube_id, title, video_type, thumbnail_url,
	channel_name, view_count, duration_sec, match_score, published_at, created_at`

// ListByWork returns a work's videos, most viewed first.
func (r *VideoRepo) ListByWork(ctx context.Context, workID string) ([]model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE work_id = $1 ORDER BY view_count DESC`

	rows, err := r.pool.Query(ctx, query, workID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVideos(rows)
}

// ListRecent returns the newest videos across all works, optionally filtered
// by type.
func (r *VideoRepo) ListRecent(ctx context.Context, videoType string, limit int) ([]model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos
		ORDER BY published_at DESC NULLS LAST LIMIT $1`
	args := []any{limit}
	if videoType != "" {
		query = `SELECT ` + videoColumns + ` FROM videos WHERE video_type = $2
			ORDER BY published_at DESC NULLS LAST LIMIT $1`
		args = append(args, videoType)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVideos(rows)
}

func scanVideos(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]model.Video, error) {
	var videos []model.Video
	for rows.Next() {
		var v model.Video
		err := rows.Scan(
			&v.ID, &v.WorkID, &v.YouTubeID, &v.Title, &v.Type, &v.ThumbnailURL,
			&v.ChannelName, &v.ViewCount, &v.DurationSec, &v.MatchScore,
			&v.PublishedAt, &v.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}
