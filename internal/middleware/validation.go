package middleware

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field limits matching database schema constraints.
const (
	YouTubeIDLen = 11  // videos.youtube_id CHAR(11)
	MaxSlugLen   = 255 // works.slug VARCHAR(255)
	MaxPageSize  = 50
	DefaultPageSize = 20
)

var (
	// youtubeIDRe matches YouTube video IDs: exactly 11 URL-safe base64 chars.
	youtubeIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	// slugRe matches work slugs: lowercase letters (Hangul included), digits,
	// dashes. Produced by the slug package, so validation mirrors it.
	slugRe = regexp.MustCompile(`^[\p{L}\p{N}-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateYouTubeID checks that a video ID is a well-formed YouTube ID.
// Returns the cleaned ID or a non-empty error message.
func ValidateYouTubeID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "youtubeId is required"
	}
	if !youtubeIDRe.MatchString(id) {
		return "", "youtubeId must be exactly 11 characters (letters, digits, - or _)"
	}
	return id, ""
}

// ValidateSlug checks that a work slug is well-formed.
func ValidateSlug(slug string) (string, string) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", "slug is required"
	}
	if len(slug) > MaxSlugLen {
		return "", "slug is too long"
	}
	if !slugRe.MatchString(slug) {
		return "", "slug contains invalid characters"
	}
	return slug, ""
}

// ValidatePagination parses limit and page query values, applying defaults
// and caps. Invalid values fall back to defaults rather than failing.
func ValidatePagination(limitStr, pageStr string) (limit, page int) {
	limit = DefaultPageSize
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		limit = min(n, MaxPageSize)
	}
	page = 1
	if n, err := strconv.Atoi(pageStr); err == nil && n > 0 {
		page = n
	}
	return limit, page
}

// ValidateVideoType checks an optional type filter. Empty means no filter.
func ValidateVideoType(t string) (string, string) {
	t = strings.ToLower(strings.TrimSpace(t))
	switch t {
	case "", "trailer", "shorts", "review", "other":
		return t, ""
	}
	return "", "type must be one of trailer, shorts, review, other"
}
