package handler

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"

	"gymapi/internal/http/middleware"
	"gymapi/internal/service"
)

// Maintenance runs the scheduled jobs. Callers authenticate with
// "Authorization: Bearer <CRON_SECRET>".
func Maintenance(secret string, docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return writeError(c, fiber.StatusInternalServerError, "CRON_NOT_CONFIGURED", "cron secret is not configured")
		}
		token, ok := middleware.BearerToken(c)
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid cron secret")
		}

		res, err := docSvc.RefreshStatuses(c.UserContext(), time.Now())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success":     true,
			"executed_at": time.Now().UTC(),
			"documents":   res,
		})
	}
}
