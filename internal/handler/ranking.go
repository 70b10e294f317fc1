package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/mandubird/ottsak/internal/middleware"
	"github.com/mandubird/ottsak/internal/service"
)

type RankingHandler struct {
	svc *service.QueryService
}

func NewRankingHandler(svc *service.QueryService) *RankingHandler {
	return &RankingHandler{svc: svc}
}

// Weekly handles GET /api/rankings/weekly?year=&week=
// Defaults to the current ISO week.
func (h *RankingHandler) Weekly(c fiber.Ctx) error {
	defYear, defWeek := time.Now().ISOWeek()

	year, ok := queryInt(c, "year", defYear, 2000, 2100)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_PARAM", "year must be a four-digit year")
	}
	week, ok := queryInt(c, "week", defWeek, 1, 53)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_PARAM", "week must be between 1 and 53")
	}

	entries, err := h.svc.WeeklyRanking(c.Context(), year, week)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"INTERNAL_ERROR", "Failed to fetch weekly ranking")
	}

	return c.JSON(fiber.Map{
		"year":     year,
		"week":     week,
		"rankings": entries,
	})
}

// Monthly handles GET /api/rankings/monthly?year=&month=
// Defaults to the previous calendar month, the most recent one computed.
func (h *RankingHandler) Monthly(c fiber.Ctx) error {
	now := time.Now()
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	year, ok := queryInt(c, "year", prev.Year(), 2000, 2100)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_PARAM", "year must be a four-digit year")
	}
	month, ok := queryInt(c, "month", int(prev.Month()), 1, 12)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_PARAM", "month must be between 1 and 12")
	}

	entries, err := h.svc.MonthlyRanking(c.Context(), year, month)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"INTERNAL_ERROR", "Failed to fetch monthly ranking")
	}

	return c.JSON(fiber.Map{
		"year":     year,
		"month":    month,
		"rankings": entries,
	})
}

// queryInt parses an optional integer query param with a default and bounds.
func queryInt(c fiber.Ctx, name string, def, lo, hi int) (int, bool) {
	raw := fiber.Query[string](c, name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, false
	}
	return n, true
}
