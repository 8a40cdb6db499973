package handler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/alexanderramin/ponto/internal/handler/middleware"
	"github.com/alexanderramin/ponto/internal/service"
	"github.com/alexanderramin/ponto/pkg/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ReviewHandler struct {
	approvals service.ApprovalService
	validate  *validator.Validator
	now       func() time.Time
	log       *logrus.Logger
}

func NewReviewHandler(approvals service.ApprovalService, validate *validator.Validator, now func() time.Time, log *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{approvals: approvals, validate: validate, now: now, log: log}
}

// Pending lists sessions awaiting review.
// GET /api/v1/reviews/pending?limit=
func (h *ReviewHandler) Pending(c *fiber.Ctx) error {
	limit, err := parseLimit(c, h.validate)
	if err != nil {
		return writeError(c, h.log, err)
	}
	sessions, err := h.approvals.ListPending(c.UserContext(), limit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toSessionList(sessions, h.now()))
}

// POST /api/v1/reviews/:id/approve
func (h *ReviewHandler) Approve(c *fiber.Ctx) error {
	sess, err := h.approvals.Approve(c.UserContext(), c.Params("id"), reviewerFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toSessionResponse(sess, h.now()))
}

// POST /api/v1/reviews/:id/reject
func (h *ReviewHandler) Reject(c *fiber.Ctx) error {
	var req RejectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, h.log, fmt.Errorf("%w: malformed JSON body", errValidation))
		}
	}
	if err := h.validate.Validate(req); err != nil {
		return writeError(c, h.log, fmt.Errorf("%w: %s", errValidation, err))
	}

	sess, err := h.approvals.Reject(c.UserContext(), c.Params("id"), reviewerFrom(c), req.Reason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toSessionResponse(sess, h.now()))
}

func reviewerFrom(c *fiber.Ctx) domain.Reviewer {
	claims := middleware.ClaimsFrom(c)
	return domain.Reviewer{ID: claims.Subject, Name: domain.CoalesceStr(claims.Name, claims.Subject)}
}
