package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/mandubird/ottsak/internal/middleware"
	"github.com/mandubird/ottsak/internal/service"
	"github.com/mandubird/ottsak/internal/tmdb"
	"github.com/mandubird/ottsak/internal/youtube"
)

// CronHandler exposes the batch jobs as authenticated POST endpoints, so the
// same code path serves both the in-process scheduler and external cron
// systems.
type CronHandler struct {
	ingest   *service.IngestService
	ranking  *service.RankingService
	worksync *service.WorkSyncService
}

func NewCronHandler(ingest *service.IngestService, ranking *service.RankingService, worksync *service.WorkSyncService) *CronHandler {
	return &CronHandler{ingest: ingest, ranking: ranking, worksync: worksync}
}

// SyncWorks handles POST /api/cron/sync-works
func (h *CronHandler) SyncWorks(c fiber.Ctx) error {
	summary, err := h.worksync.SyncTrendingWorks(c.Context())
	if err != nil {
		return providerError(c, err, "Failed to sync works")
	}
	return c.JSON(summary)
}

// SyncVideos handles POST /api/cron/sync-videos
func (h *CronHandler) SyncVideos(c fiber.Ctx) error {
	summary, err := h.ingest.SyncRecentWorks(c.Context())
	if err != nil {
		return providerError(c, err, "Failed to sync videos")
	}
	if Metrics.IngestedVideosTotal != nil {
		Metrics.IngestedVideosTotal.WithLabelValues("synced").Add(float64(summary.Synced))
		Metrics.IngestedVideosTotal.WithLabelValues("pending").Add(float64(summary.Pending))
		Metrics.IngestedVideosTotal.WithLabelValues("skipped").Add(float64(summary.Skipped))
	}
	return c.JSON(summary)
}

// ImportWorks handles POST /api/cron/import-works with body {"titles": [...]}
func (h *CronHandler) ImportWorks(c fiber.Ctx) error {
	var body struct {
		Titles []string `json:"titles"`
	}
	if err := c.Bind().Body(&body); err != nil || len(body.Titles) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_BODY", "Body must contain a non-empty titles array")
	}
	if len(body.Titles) > 50 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_BODY", "At most 50 titles per request")
	}

	summary, err := h.worksync.ImportWorksByTitle(c.Context(), body.Titles)
	if err != nil {
		return providerError(c, err, "Failed to import works")
	}
	return c.JSON(summary)
}

// WeeklyRanking handles POST /api/cron/sync-weekly-ranking
func (h *CronHandler) WeeklyRanking(c fiber.Ctx) error {
	start := time.Now()
	summary, err := h.ranking.ComputeWeeklyRanking(c.Context(), time.Now())
	if err != nil {
		return providerError(c, err, "Failed to compute weekly ranking")
	}
	if Metrics.RankingComputeDuration != nil {
		Metrics.RankingComputeDuration.Observe(time.Since(start).Seconds())
	}
	return c.JSON(summary)
}

// MonthlyRanking handles POST /api/cron/sync-monthly-ranking
func (h *CronHandler) MonthlyRanking(c fiber.Ctx) error {
	start := time.Now()
	summary, err := h.ranking.ComputeMonthlyRanking(c.Context(), time.Now())
	if err != nil {
		return providerError(c, err, "Failed to compute monthly ranking")
	}
	if Metrics.RankingComputeDuration != nil {
		Metrics.RankingComputeDuration.Observe(time.Since(start).Seconds())
	}
	return c.JSON(summary)
}

// providerError maps a missing provider credential to 503 so operators can
// tell a misconfigured deployment apart from a transient failure.
func providerError(c fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, youtube.ErrAPIKeyMissing) || errors.Is(err, tmdb.ErrAPIKeyMissing) {
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable,
			"PROVIDER_NOT_CONFIGURED", "External API credentials are not configured")
	}
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
		"INTERNAL_ERROR", fallback)
}
