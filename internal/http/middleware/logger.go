package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"gymapi/internal/config"
	"gymapi/internal/logger"
)

// ErrorLocalKey holds an internal error a handler chose not to expose.
const ErrorLocalKey = "internal_error"

// Logger writes one access log line per request with request_id, method,
// path, status and latency in milliseconds.
func Logger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		fields := logger.Fields{
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		}
		if p, ok := PrincipalFrom(c); ok {
			fields["user_id"] = p.UserID
		}

		switch internal, _ := c.Locals(ErrorLocalKey).(error); {
		case internal != nil:
			log.Error("http_request", internal, fields)
		case status >= fiber.StatusInternalServerError:
			log.Warn("http_request", fields)
		default:
			log.Info("http_request", fields)
		}
		return err
	}
}

// LoggerWithWriter is Logger writing to w.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logger.NewWithWriter(w, config.LogLevelInfo, loc))
}
