package model

import "time"

// WeeklyRanking is one row of a week's Top-N, unique per (year, week, work).
type WeeklyRanking struct {
	ID        string    `json:"id"`
	WorkID    string    `json:"workId"`
	Rank      int       `json:"rank"`
	Score     float64   `json:"score"`
	Week      int       `json:"week"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"createdAt"`
}

// MonthlyRanking is one row of a month's Top-N, unique per (year, month, work).
type MonthlyRanking struct {
	ID        string    `json:"id"`
	WorkID    string    `json:"workId"`
	Rank      int       `json:"rank"`
	Score     float64   `json:"score"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"createdAt"`
}

// RankingEntry is a ranking row joined with its work for the read API.
type RankingEntry struct {
	Rank      int      `json:"rank"`
	Score     float64  `json:"score"`
	WorkID    string   `json:"workId"`
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Type      WorkType `json:"type"`
	PosterURL *string  `json:"posterUrl,omitempty"`
	Platform  []string `json:"platform,omitempty"`
}

// WeeklyScore is one weekly observation used by the monthly roll-up.
type WeeklyScore struct {
	WorkID string
	Score  float64
}

// WeeklySummary reports one weekly ranking computation.
type WeeklySummary struct {
	Year   int      `json:"year"`
	Week   int      `json:"week"`
	Saved  int      `json:"saved"`
	Total  int      `json:"total"`
	Errors []string `json:"errors,omitempty"`
}

// MonthlySummary reports one monthly roll-up.
type MonthlySummary struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// SyncWorksSummary reports one metadata sync run.
type SyncWorksSummary struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors,omitempty"`
}
