package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewLogger logs every request once it has been handled, at a level following the status code.
func NewLogger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		err := c.Next()

		msg := "HTTP Request"
		if err != nil {
			msg = err.Error()
		}

		code := c.Response().StatusCode()
		requestLogger := log.With(
			"status", code,
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
			"latency", time.Since(startTime).String(),
			"user-agent", c.Get(fiber.HeaderUserAgent),
		)

		switch {
		case code >= fiber.StatusBadRequest && code < fiber.StatusInternalServerError:
			requestLogger.WarnContext(c.UserContext(), msg)
		case code >= fiber.StatusInternalServerError:
			requestLogger.ErrorContext(c.UserContext(), msg)
		default:
			requestLogger.DebugContext(c.UserContext(), msg)
		}

		return err
	}
}
