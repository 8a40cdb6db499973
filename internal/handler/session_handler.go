package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/alexanderramin/ponto/internal/handler/middleware"
	"github.com/alexanderramin/ponto/internal/service"
	"github.com/alexanderramin/ponto/pkg/jwt"
	"github.com/alexanderramin/ponto/pkg/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type SessionHandler struct {
	timeClock service.TimeClockService
	validate  *validator.Validator
	now       func() time.Time
	log       *logrus.Logger
}

func NewSessionHandler(timeClock service.TimeClockService, validate *validator.Validator, now func() time.Time, log *logrus.Logger) *SessionHandler {
	return &SessionHandler{timeClock: timeClock, validate: validate, now: now, log: log}
}

// Start clocks the caller in.
// POST /api/v1/sessions
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	var req StartSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, h.log, fmt.Errorf("%w: malformed JSON body", errValidation))
		}
	}
	if err := h.validate.Validate(req); err != nil {
		return writeError(c, h.log, fmt.Errorf("%w: %s", errValidation, err))
	}

	officer := domain.Officer{
		Role:         claims.Role,
		Rank:         claims.Rank,
		DisplayName:  domain.CoalesceStr(req.DisplayName, claims.Name, claims.Subject),
		VehicleLabel: req.VehicleLabel,
	}
	sess, err := h.timeClock.Start(c.UserContext(), claims.Subject, officer)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSessionResponse(sess, h.now()))
}

// Active returns the caller's open session, or 204 when there is none.
// GET /api/v1/sessions/active
func (h *SessionHandler) Active(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)
	sess, err := h.timeClock.GetActiveFor(c.UserContext(), claims.Subject)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if sess == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(toSessionResponse(sess, h.now()))
}

// List returns the caller's sessions, most recent first.
// GET /api/v1/sessions?limit=
func (h *SessionHandler) List(c *fiber.Ctx) error {
	limit, err := parseLimit(c, h.validate)
	if err != nil {
		return writeError(c, h.log, err)
	}
	claims := middleware.ClaimsFrom(c)
	sessions, err := h.timeClock.ListByActor(c.UserContext(), claims.Subject, limit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toSessionList(sessions, h.now()))
}

// Get returns one session. Officers see only their own; reviewers and
// admins see any.
// GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)
	sess, err := h.timeClock.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if sess.ActorID != claims.Subject && !claims.HasRole(jwt.RoleReviewer) && !claims.HasRole(jwt.RoleAdmin) {
		return writeError(c, h.log, domain.ErrNotFound)
	}
	return c.JSON(toSessionResponse(sess, h.now()))
}

// POST /api/v1/sessions/:id/pause
func (h *SessionHandler) Pause(c *fiber.Ctx) error {
	return h.ownTransition(c, h.timeClock.Pause)
}

// POST /api/v1/sessions/:id/resume
func (h *SessionHandler) Resume(c *fiber.Ctx) error {
	return h.ownTransition(c, h.timeClock.Resume)
}

// POST /api/v1/sessions/:id/finalize
func (h *SessionHandler) Finalize(c *fiber.Ctx) error {
	return h.ownTransition(c, h.timeClock.Finalize)
}

// Delete removes a session regardless of status.
// DELETE /api/v1/admin/sessions/:id
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	if err := h.timeClock.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ownTransition applies op to a session owned by the caller. Sessions of
// other officers are reported as missing.
func (h *SessionHandler) ownTransition(c *fiber.Ctx, op func(ctx context.Context, id string) (*domain.DutySession, error)) error {
	claims := middleware.ClaimsFrom(c)
	id := c.Params("id")

	current, err := h.timeClock.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if current.ActorID != claims.Subject {
		return writeError(c, h.log, domain.ErrNotFound)
	}

	sess, err := op(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toSessionResponse(sess, h.now()))
}

func parseLimit(c *fiber.Ctx, v *validator.Validator) (int, error) {
	limit := c.QueryInt("limit", defaultListLimit)
	if err := v.Var("limit", limit, fmt.Sprintf("gte=1,lte=%d", maxListLimit)); err != nil {
		return 0, fmt.Errorf("%w: %s", errValidation, err)
	}
	return limit, nil
}
