package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// RequireCronSecret guards the cron trigger surface with a shared secret.
// The secret is accepted either as "Authorization: Bearer <secret>" or in the
// X-Cron-Secret header. When no secret is configured, the surface is
// unavailable rather than open: every request gets 503.
func RequireCronSecret(secret string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if secret == "" {
			return ErrorResponse(c, fiber.StatusServiceUnavailable,
				"CRON_DISABLED", "Cron triggers are not configured")
		}

		presented := c.Get("X-Cron-Secret")
		if presented == "" {
			auth := c.Get("Authorization")
			if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
				presented = after
			}
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			return ErrorResponse(c, fiber.StatusUnauthorized,
				"UNAUTHORIZED", "Invalid or missing cron secret")
		}

		return c.Next()
	}
}
