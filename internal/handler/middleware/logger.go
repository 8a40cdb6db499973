package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Logger writes one access log entry per request.
func Logger(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// Let the app error handler set the status before we read it.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		fields := logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if claims := ClaimsFrom(c); claims != nil {
			fields["actor_id"] = claims.Subject
		}
		entry := logger.WithFields(fields)
		if c.Response().StatusCode() >= fiber.StatusInternalServerError {
			entry.Error("http_request")
		} else {
			entry.Info("http_request")
		}
		return err
	}
}
