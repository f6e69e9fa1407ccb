package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AnalysisIDKey is the Locals key handlers set to tag the request log with the analysis they served.
const AnalysisIDKey = "analysis_id"

// Logging middleware that logs route, status code and response time with slog.
// Server errors are logged at error level and client errors at warn level.
func Logging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}

		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", float64(time.Since(start).Microseconds()) / 1000,
		}

		if id := c.Locals(AnalysisIDKey); id != nil {
			attrs = append(attrs, AnalysisIDKey, id)
		}

		level := slog.LevelInfo
		switch {
		case status >= fiber.StatusInternalServerError:
			level = slog.LevelError
		case status >= fiber.StatusBadRequest:
			level = slog.LevelWarn
		}

		slog.Log(c.Context(), level, "Request", attrs...)

		return err
	}
}
