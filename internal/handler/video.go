package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mandubird/ottsak/internal/middleware"
	"github.com/mandubird/ottsak/internal/service"
)

type VideoHandler struct {
	svc *service.QueryService
}

func NewVideoHandler(svc *service.QueryService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// ListRecent handles GET /api/videos?type=&limit=
func (h *VideoHandler) ListRecent(c fiber.Ctx) error {
	videoType, msg := middleware.ValidateVideoType(fiber.Query[string](c, "type"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", msg)
	}

	limit, _ := middleware.ValidatePagination(fiber.Query[string](c, "limit"), "")

	videos, err := h.svc.ListVideos(c.Context(), videoType, limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"INTERNAL_ERROR", "Failed to list videos")
	}

	return c.JSON(fiber.Map{"videos": videos})
}
