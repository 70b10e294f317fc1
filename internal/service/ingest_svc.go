package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mandubird/ottsak/internal/classify"
	"github.com/mandubird/ottsak/internal/match"
	"github.com/mandubird/ottsak/internal/model"
	"github.com/mandubird/ottsak/internal/youtube"
)

// VideoSearcher is the video-search collaborator (YouTube in production).
type VideoSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]model.CandidateVideo, error)
}

// VideoStore is the slice of the record store the pipeline writes to.
type VideoStore interface {
	Upsert(ctx context.Context, v model.Video) error
	InsertPending(ctx context.Context, p model.PendingVideo) error
}

// RecentWorkLister feeds the batch run with works worth refreshing.
type RecentWorkLister interface {
	ListRecent(ctx context.Context, since time.Time, limit int) ([]model.Work, error)
}

// Decision is the routing outcome for one candidate. Exactly one applies to
// every candidate; which one depends only on the post-bonus score.
type Decision int

const (
	DecisionDiscard Decision = iota
	DecisionPending
	DecisionMatch
)

// IngestConfig carries the thresholds and the official-channel allow-list.
type IngestConfig struct {
	MatchThreshold       float64
	PendingThreshold     float64
	OfficialChannelBonus float64
	OfficialChannels     []string
	SearchResults        int
	// Delay between consecutive searches in a batch run; respects the
	// provider's rate limits.
	Delay time.Duration
	// RecentWindow bounds which works a batch run refreshes.
	RecentWindow time.Duration
	BatchLimit   int
}

// DefaultIngestConfig returns the production thresholds.
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		MatchThreshold:       0.7,
		PendingThreshold:     0.5,
		OfficialChannelBonus: 0.3,
		OfficialChannels:     DefaultOfficialChannels(),
		SearchResults:        10,
		Delay:                500 * time.Millisecond,
		RecentWindow:         30 * 24 * time.Hour,
		BatchLimit:           50,
	}
}

// IngestService matches searched videos to works and routes each candidate
// to exactly one of: video upsert, pending-review insert, or discard.
type IngestService struct {
	cfg        IngestConfig
	searcher   VideoSearcher
	store      VideoStore
	works      RecentWorkLister
	classifier *classify.Classifier
	log        zerolog.Logger
}

func NewIngestService(cfg IngestConfig, searcher VideoSearcher, store VideoStore, works RecentWorkLister, classifier *classify.Classifier, log zerolog.Logger) *IngestService {
	return &IngestService{
		cfg:        cfg,
		searcher:   searcher,
		store:      store,
		works:      works,
		classifier: classifier,
		log:        log,
	}
}

// Route maps a post-bonus score onto the three-way partition.
func (s *IngestService) Route(score float64) Decision {
	switch {
	case score >= s.cfg.MatchThreshold:
		return DecisionMatch
	case score >= s.cfg.PendingThreshold:
		return DecisionPending
	default:
		return DecisionDiscard
	}
}

// AdjustedScore applies the official-channel bonus, capped at 1.
func (s *IngestService) AdjustedScore(raw float64, channelName string) float64 {
	if !isOfficialChannel(channelName, s.cfg.OfficialChannels) {
		return raw
	}
	boosted := raw + s.cfg.OfficialChannelBonus
	if boosted > 1 {
		return 1
	}
	return boosted
}

// IngestVideosForWork searches for a work's videos and processes the
// results. A failed search degrades to a summary error unless the credential
// is missing, which is returned so batch callers can fail fast.
func (s *IngestService) IngestVideosForWork(ctx context.Context, work *model.Work) (model.IngestSummary, error) {
	query := work.SearchTitle() + " 예고편 리뷰 쇼츠"
	candidates, err := s.searcher.Search(ctx, query, s.cfg.SearchResults)
	if err != nil {
		if errors.Is(err, youtube.ErrAPIKeyMissing) {
			return model.IngestSummary{}, err
		}
		return model.IngestSummary{
			Errors: []string{fmt.Sprintf("work %s: %v", work.Slug, err)},
		}, nil
	}

	return s.ProcessCandidates(ctx, work, candidates), nil
}

// ProcessCandidates scores, classifies, and routes a fetched candidate list.
// Store failures downgrade the affected candidate to an error entry; the
// rest of the batch continues.
func (s *IngestService) ProcessCandidates(ctx context.Context, work *model.Work, candidates []model.CandidateVideo) model.IngestSummary {
	var summary model.IngestSummary
	searchTitle := work.SearchTitle()

	for _, cand := range candidates {
		raw := match.TitleScore(cand.Title, searchTitle).Score
		score := s.AdjustedScore(raw, cand.ChannelName)

		switch s.Route(score) {
		case DecisionMatch:
			if err := s.store.Upsert(ctx, buildVideo(work.ID, cand, s.classifier, score)); err != nil {
				summary.Errors = append(summary.Errors,
					fmt.Sprintf("video %s: %v", cand.YouTubeID, err))
				continue
			}
			summary.Synced++

		case DecisionPending:
			if err := s.store.InsertPending(ctx, buildPending(work.Title, cand, score)); err != nil {
				summary.Errors = append(summary.Errors,
					fmt.Sprintf("pending %s: %v", cand.YouTubeID, err))
				continue
			}
			summary.Pending++

		case DecisionDiscard:
			summary.Skipped++
		}
	}

	return summary
}

// SyncRecentWorks runs ingestion over works created in the recent window,
// pausing between works. Per-work failures are collected; only a missing
// credential aborts the whole run.
func (s *IngestService) SyncRecentWorks(ctx context.Context) (model.IngestSummary, error) {
	since := time.Now().Add(-s.cfg.RecentWindow)
	works, err := s.works.ListRecent(ctx, since, s.cfg.BatchLimit)
	if err != nil {
		return model.IngestSummary{}, fmt.Errorf("list recent works: %w", err)
	}

	var summary model.IngestSummary
	for i := range works {
		work := &works[i]

		one, err := s.IngestVideosForWork(ctx, work)
		if err != nil {
			return summary, err
		}
		summary.Merge(one)

		s.log.Debug().
			Str("work", work.Slug).
			Int("synced", one.Synced).
			Int("pending", one.Pending).
			Int("skipped", one.Skipped).
			Msg("work ingested")

		if i < len(works)-1 {
			sleepCtx(ctx, s.cfg.Delay)
		}
		if ctx.Err() != nil {
			break
		}
	}

	s.log.Info().
		Int("works", len(works)).
		Int("synced", summary.Synced).
		Int("pending", summary.Pending).
		Int("skipped", summary.Skipped).
		Int("errors", len(summary.Errors)).
		Msg("video sync complete")

	return summary, nil
}

func buildVideo(workID string, cand model.CandidateVideo, classifier *classify.Classifier, score float64) model.Video {
	v := model.Video{
		WorkID:      workID,
		YouTubeID:   cand.YouTubeID,
		Title:       cand.Title,
		Type:        classifier.Classify(cand.Title, cand.DurationSec),
		ViewCount:   cand.ViewCount,
		DurationSec: cand.DurationSec,
		MatchScore:  score,
	}
	if cand.ThumbnailURL != "" {
		v.ThumbnailURL = &cand.ThumbnailURL
	}
	if cand.ChannelName != "" {
		v.ChannelName = &cand.ChannelName
	}
	if !cand.PublishedAt.IsZero() {
		v.PublishedAt = &cand.PublishedAt
	}
	return v
}

func buildPending(workTitle string, cand model.CandidateVideo, score float64) model.PendingVideo {
	raw, _ := json.Marshal(cand)
	return model.PendingVideo{
		YouTubeID:        cand.YouTubeID,
		Title:            cand.Title,
		GuessedWorkTitle: workTitle,
		MatchScore:       score,
		RawData:          raw,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
