package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/alexanderramin/ponto/internal/handler/problem"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Recovery turns panics into a 500 problem response.
func Recovery(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"panic": fmt.Sprint(r),
					"stack": string(debug.Stack()),
					"path":  c.Path(),
				}).Error("recovered from panic")
				err = problem.Write(c, fiber.StatusInternalServerError, "internal", "Internal Server Error", "")
			}
		}()
		return c.Next()
	}
}
