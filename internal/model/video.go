package model

import (
	"time"

	"github.com/mandubird/ottsak/internal/classify"
)

// Video is an externally sourced video confidently attached to a Work.
// YouTubeID is globally unique: re-ingesting the same video re-attaches it
// via upsert, never duplicates it.
type Video struct {
	ID           string             `json:"id"`
	WorkID       string             `json:"workId"`
	YouTubeID    string             `json:"youtubeId"`
	Title        string             `json:"title"`
	Type         classify.VideoType `json:"type"`
	ThumbnailURL *string            `json:"thumbnailUrl,omitempty"`
	ChannelName  *string            `json:"channelName,omitempty"`
	ViewCount    int64              `json:"viewCount"`
	DurationSec  int                `json:"durationSec"`
	MatchScore   float64            `json:"matchScore"`
	PublishedAt  *time.Time         `json:"publishedAt,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// PendingVideo holds a candidate whose match confidence landed in the
// uncertain band. The core only ever creates these; promotion to Video is a
// manual review action outside this service.
type PendingVideo struct {
	ID               string    `json:"id"`
	YouTubeID        string    `json:"youtubeId"`
	Title            string    `json:"title"`
	GuessedWorkTitle string    `json:"guessedWorkTitle"`
	MatchScore       float64   `json:"matchScore"`
	RawData          []byte    `json:"-"`
	Reviewed         bool      `json:"reviewed"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CandidateVideo is a search result from the video provider before any
// matching or routing has happened.
type CandidateVideo struct {
	YouTubeID    string    `json:"youtubeId"`
	Title        string    `json:"title"`
	ChannelName  string    `json:"channelName"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	ViewCount    int64     `json:"viewCount"`
	DurationSec  int       `json:"durationSec"`
	PublishedAt  time.Time `json:"publishedAt"`
}

// IngestSummary is the end-of-run report for one ingestion batch. Per-item
// failures land in Errors; the run itself never aborts on them.
type IngestSummary struct {
	Synced  int      `json:"synced"`
	Pending int      `json:"pending"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Merge folds another summary into this one.
func (s *IngestSummary) Merge(other IngestSummary) {
	s.Synced += other.Synced
	s.Pending += other.Pending
	s.Skipped += other.Skipped
	s.Errors = append(s.Errors, other.Errors...)
}
