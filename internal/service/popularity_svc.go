package service

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog"

	"github.com/mandubird/ottsak/internal/model"
	"github.com/mandubird/ottsak/internal/youtube"
)

// PopularityConfig tunes the engagement scoring.
type PopularityConfig struct {
	// OfficialBonus multiplies views from official publisher channels.
	OfficialBonus    float64
	OfficialChannels []string
	SearchResults    int
}

func DefaultPopularityConfig() PopularityConfig {
	return PopularityConfig{
		OfficialBonus:    1.5,
		OfficialChannels: DefaultOfficialChannels(),
		SearchResults:    10,
	}
}

// PopularityService turns a work's trailer search results into a single
// engagement score: the sum of view counts, with official channels weighted
// up. It is the ranking aggregator's signal source.
type PopularityService struct {
	cfg      PopularityConfig
	searcher VideoSearcher
	log      zerolog.Logger
}

func NewPopularityService(cfg PopularityConfig, searcher VideoSearcher, log zerolog.Logger) *PopularityService {
	return &PopularityService{cfg: cfg, searcher: searcher, log: log}
}

// Score folds candidate videos into one number:
// sum of round(viewCount × bonus), bonus 1.5 for official channels else 1.
func (s *PopularityService) Score(candidates []model.CandidateVideo) int64 {
	var total int64
	for _, c := range candidates {
		bonus := 1.0
		if isOfficialChannel(c.ChannelName, s.cfg.OfficialChannels) {
			bonus = s.cfg.OfficialBonus
		}
		total += int64(math.Round(float64(c.ViewCount) * bonus))
	}
	return total
}

// EngagementScore runs a trailer-oriented search for the work and scores the
// results. A failed or empty search yields 0 — a work with no reachable
// signal simply ranks at the bottom. The one exception is a missing
// credential, which is returned so batch callers can fail fast instead of
// producing an all-zero ranking.
func (s *PopularityService) EngagementScore(ctx context.Context, searchTitle string) (int64, error) {
	candidates, err := s.searcher.Search(ctx, searchTitle+" 예고편", s.cfg.SearchResults)
	if err != nil {
		if errors.Is(err, youtube.ErrAPIKeyMissing) {
			return 0, err
		}
		s.log.Warn().Err(err).Str("title", searchTitle).Msg("engagement search failed")
		return 0, nil
	}
	return s.Score(candidates), nil
}
