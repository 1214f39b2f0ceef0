package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit allows max requests per minute per caller. Anonymous requests
// are keyed by client IP.
func RateLimit(name string, max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if p, ok := PrincipalFrom(c); ok && p.UserID != "" {
				return name + ":" + p.UserID
			}
			return name + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many requests, retry later")
		},
	})
}
