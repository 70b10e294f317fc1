package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mandubird/ottsak/internal/middleware"
	"github.com/mandubird/ottsak/internal/repository"
	"github.com/mandubird/ottsak/internal/service"
)

type AdminHandler struct {
	works *repository.WorkRepo
	query *service.QueryService
}

func NewAdminHandler(works *repository.WorkRepo, query *service.QueryService) *AdminHandler {
	return &AdminHandler{works: works, query: query}
}

// SetManualVideos handles PUT /api/admin/works/:slug/manual-videos with body
// {"videoIds": [...]}. Manual IDs pin a curated video list on the work
// regardless of what ingestion finds.
func (h *AdminHandler) SetManualVideos(c fiber.Ctx) error {
	slug, msg := middleware.ValidateSlug(c.Params("slug"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_SLUG", msg)
	}

	var body struct {
		VideoIDs []string `json:"videoIds"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_BODY", "Body must contain a videoIds array")
	}
	if len(body.VideoIDs) > 20 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_BODY", "At most 20 manual videos per work")
	}

	cleaned := make([]string, 0, len(body.VideoIDs))
	for _, id := range body.VideoIDs {
		valid, msg := middleware.ValidateYouTubeID(id)
		if msg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID", msg)
		}
		cleaned = append(cleaned, valid)
	}

	work, err := h.works.FindBySlug(c.Context(), slug)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"INTERNAL_ERROR", "Failed to fetch work")
	}
	if work == nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Work not found")
	}

	if err := h.works.SetManualVideoIDs(c.Context(), work.ID, cleaned); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"INTERNAL_ERROR", "Failed to update manual videos")
	}

	h.query.InvalidateWork(c.Context(), slug)

	return c.JSON(fiber.Map{
		"slug":           slug,
		"manualVideoIds": cleaned,
	})
}
