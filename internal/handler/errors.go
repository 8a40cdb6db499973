package handler

import (
	"errors"

	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/alexanderramin/ponto/internal/handler/problem"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// errValidation marks request bodies or parameters that failed validation.
var errValidation = errors.New("validation failed")

// writeError maps service errors onto problem responses.
func writeError(c *fiber.Ctx, log *logrus.Logger, err error) error {
	switch {
	case errors.Is(err, errValidation), errors.Is(err, domain.ErrInvalidArgument):
		return problem.Write(c, fiber.StatusBadRequest, "validation", "Bad Request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return problem.Write(c, fiber.StatusNotFound, "not-found", "Not Found", "duty session not found")
	case errors.Is(err, domain.ErrConflict):
		return problem.Write(c, fiber.StatusConflict, "conflict", "Conflict", "you already have an open duty session")
	case errors.Is(err, domain.ErrInvalidState):
		return problem.Write(c, fiber.StatusConflict, "invalid-state", "Action Not Available", err.Error())
	case errors.Is(err, domain.ErrInvariantViolation):
		log.WithError(err).WithField("path", c.Path()).Error("duty session invariant violated")
		return problem.Write(c, fiber.StatusInternalServerError, "invariant-violation", "Internal Server Error", "")
	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return problem.Write(c, fe.Code, "http", fe.Message, "")
		}
		log.WithError(err).WithField("path", c.Path()).Error("request failed")
		return problem.Write(c, fiber.StatusInternalServerError, "internal", "Internal Server Error", "")
	}
}

// ErrorHandler is the fiber app error handler for errors not handled inline.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, log, err)
	}
}
