package model

import "time"

// WorkType distinguishes one-off films from episodic series.
type WorkType string

const (
	WorkMovie  WorkType = "movie"
	WorkSeries WorkType = "series"
)

// Work represents a single tracked movie or series.
type Work struct {
	ID             string     `json:"id"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	TitleEN        *string    `json:"titleEn,omitempty"`
	Type           WorkType   `json:"type"`
	Genre          []string   `json:"genre,omitempty"`
	Platform       []string   `json:"platform,omitempty"`
	ReleaseDate    *time.Time `json:"releaseDate,omitempty"`
	ManualVideoIDs []string   `json:"manualVideoIds,omitempty"`
	Rating         *float64   `json:"rating,omitempty"`
	PosterURL      *string    `json:"posterUrl,omitempty"`
	BackdropURL    *string    `json:"backdropUrl,omitempty"`
	Overview       *string    `json:"overview,omitempty"`
	TMDBID         *int64     `json:"tmdbId,omitempty"`
	ViewCount      int64      `json:"viewCount"`
	IsFeatured     bool       `json:"isFeatured"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// SearchTitle returns the title used for external video searches: the
// original-language title when present, the localized one otherwise.
func (w *Work) SearchTitle() string {
	if w.TitleEN != nil && *w.TitleEN != "" {
		return *w.TitleEN
	}
	return w.Title
}

// WorkDetail is the work detail response: the work plus its attached videos.
type WorkDetail struct {
	Work
	Videos []Video `json:"videos"`
}

// WorkMetadata is a provider-shaped work row, upserted into works keyed on
// the external id.
type WorkMetadata struct {
	Slug        string
	Title       string
	TitleEN     *string
	Type        WorkType
	Genre       []string
	Platform    []string
	ReleaseDate *time.Time
	Rating      *float64
	PosterURL   *string
	BackdropURL *string
	Overview    *string
	TMDBID      int64
}

// SearchTitle mirrors Work.SearchTitle for rows not yet persisted.
func (m *WorkMetadata) SearchTitle() string {
	if m.TitleEN != nil && *m.TitleEN != "" {
		return *m.TitleEN
	}
	return m.Title
}
