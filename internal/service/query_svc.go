package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/mandubird/ottsak/internal/model"
	"github.com/mandubird/ottsak/internal/repository"
)

// QueryService serves the public read API. Work detail and ranking lookups
// use cache-aside: check Redis first, fall back to Postgres, then populate.
type QueryService struct {
	works    *repository.WorkRepo
	videos   *repository.VideoRepo
	rankings *repository.RankingRepo
	cache    *CacheService
}

func NewQueryService(works *repository.WorkRepo, videos *repository.VideoRepo, rankings *repository.RankingRepo, cache *CacheService) *QueryService {
	return &QueryService{works: works, videos: videos, rankings: rankings, cache: cache}
}

// ListWorks returns a filtered, paginated work listing with the total count.
func (s *QueryService) ListWorks(ctx context.Context, opts repository.ListOptions) ([]model.Work, int, error) {
	return s.works.List(ctx, opts)
}

// GetWorkDetail returns one work with its videos, or nil when the slug is
// unknown. A hit also bumps the work's view counter; the cache keeps that
// counter slightly stale, which is fine for a popularity signal.
func (s *QueryService) GetWorkDetail(ctx context.Context, slug string) (*model.WorkDetail, error) {
	if s.cache != nil {
		cached, err := s.cache.GetWork(ctx, slug)
		if err != nil {
			log.Printf("cache: work get error: %v", err)
		} else if cached != nil {
			var detail model.WorkDetail
			if err := json.Unmarshal(cached, &detail); err == nil {
				go func() {
					_ = s.works.IncrementViewCount(context.Background(), detail.ID)
				}()
				return &detail, nil
			}
		}
	}

	work, err := s.works.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if work == nil {
		return nil, nil
	}

	videos, err := s.videos.ListByWork(ctx, work.ID)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []model.Video{}
	}

	detail := &model.WorkDetail{Work: *work, Videos: videos}

	if s.cache != nil {
		if err := s.cache.SetWork(ctx, slug, detail); err != nil {
			log.Printf("cache: work set error: %v", err)
		}
	}

	if err := s.works.IncrementViewCount(ctx, work.ID); err != nil {
		log.Printf("view count: %v", err)
	}

	return detail, nil
}

// ListVideos returns recent videos, optionally filtered by type.
func (s *QueryService) ListVideos(ctx context.Context, videoType string, limit int) ([]model.Video, error) {
	videos, err := s.videos.ListRecent(ctx, videoType, limit)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []model.Video{}
	}
	return videos, nil
}

// WeeklyRanking returns the stored ranking for one ISO week.
func (s *QueryService) WeeklyRanking(ctx context.Context, year, week int) ([]model.RankingEntry, error) {
	return s.ranking(ctx, "weekly", year, week, func(ctx context.Context) ([]model.RankingEntry, error) {
		return s.rankings.GetWeekly(ctx, year, week)
	})
}

// MonthlyRanking returns the stored ranking for one calendar month.
func (s *QueryService) MonthlyRanking(ctx context.Context, year, month int) ([]model.RankingEntry, error) {
	return s.ranking(ctx, "monthly", year, month, func(ctx context.Context) ([]model.RankingEntry, error) {
		return s.rankings.GetMonthly(ctx, year, month)
	})
}

func (s *QueryService) ranking(ctx context.Context, period string, year, n int, fetch func(context.Context) ([]model.RankingEntry, error)) ([]model.RankingEntry, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRanking(ctx, period, year, n)
		if err != nil {
			log.Printf("cache: ranking get error: %v", err)
		} else if cached != nil {
			var entries []model.RankingEntry
			if err := json.Unmarshal(cached, &entries); err == nil {
				return entries, nil
			}
		}
	}

	entries, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.RankingEntry{}
	}

	if s.cache != nil {
		if err := s.cache.SetRanking(ctx, period, year, n, entries); err != nil {
			log.Printf("cache: ranking set error: %v", err)
		}
	}

	return entries, nil
}

// InvalidateWork drops a work's cached detail after an admin edit.
func (s *QueryService) InvalidateWork(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWork(ctx, slug); err != nil {
		log.Printf("cache: work invalidate error: %v", err)
	}
}
