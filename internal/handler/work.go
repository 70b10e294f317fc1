package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mandubird/ottsak/internal/middleware"
	"github.com/mandubird/ottsak/internal/repository"
	"github.com/mandubird/ottsak/internal/service"
)

type WorkHandler struct {
	svc *service.QueryService
}

func NewWorkHandler(svc *service.QueryService) *WorkHandler {
	return &WorkHandler{svc: svc}
}

// List handles GET /api/works?genre=&type=&sort=&limit=&page=
func (h *WorkHandler) List(c fiber.Ctx) error {
	workType := fiber.Query[string](c, "type")
	switch workType {
	case "", "movie", "series":
	default:
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_PARAM", "type must be movie or series")
	}

	sort := fiber.Query[string](c, "sort")
	switch sort {
	case "", "latest", "popular", "rating":
	default:
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_PARAM", "sort must be one of latest, popular, rating")
	}

	limit, page := middleware.ValidatePagination(
		fiber.Query[string](c, "limit"), fiber.Query[string](c, "page"))

	works, total, err := h.svc.ListWorks(c.Context(), repository.ListOptions{
		Genre: fiber.Query[string](c, "genre"),
		Type:  workType,
		Sort:  sort,
		Limit: limit,
		Page:  page,
	})
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"INTERNAL_ERROR", "Failed to list works")
	}

	return c.JSON(fiber.Map{
		"works": works,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetBySlug handles GET /api/works/:slug
func (h *WorkHandler) GetBySlug(c fiber.Ctx) error {
	slug, msg := middleware.ValidateSlug(c.Params("slug"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_SLUG", msg)
	}

	detail, err := h.svc.GetWorkDetail(c.Context(), slug)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"INTERNAL_ERROR", "Failed to fetch work")
	}
	if detail == nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound,
			"NOT_FOUND", "Work not found")
	}

	return c.JSON(detail)
}
