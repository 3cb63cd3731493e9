// Package middleware contains HTTP middlewares for delivery.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs each request with the matched route pattern, the
// concrete path, status and duration in milliseconds.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		reqID, _ := c.Locals("requestid").(string)
		log.Infow("http request",
			"method", c.Method(),
			"route", c.Route().Path,
			"path", c.OriginalURL(),
			"status", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", reqID,
		)
		return err
	}
}
