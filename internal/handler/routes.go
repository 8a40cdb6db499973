package handler

import (
	"github.com/alexanderramin/ponto/internal/handler/middleware"
	"github.com/alexanderramin/ponto/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(
	app *fiber.App,
	sessionHandler *SessionHandler,
	reviewHandler *ReviewHandler,
	healthHandler *HealthHandler,
	authMiddleware fiber.Handler,
) {
	// Health check (public)
	app.Get("/health", healthHandler.Health)

	api := app.Group("/api/v1", authMiddleware)

	sessions := api.Group("/sessions")
	sessions.Post("/", sessionHandler.Start)
	sessions.Get("/", sessionHandler.List)
	sessions.Get("/active", sessionHandler.Active)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Post("/:id/pause", sessionHandler.Pause)
	sessions.Post("/:id/resume", sessionHandler.Resume)
	sessions.Post("/:id/finalize", sessionHandler.Finalize)

	reviews := api.Group("/reviews", middleware.RequireRole(jwt.RoleReviewer, jwt.RoleAdmin))
	reviews.Get("/pending", reviewHandler.Pending)
	reviews.Post("/:id/approve", reviewHandler.Approve)
	reviews.Post("/:id/reject", reviewHandler.Reject)

	admin := api.Group("/admin", middleware.RequireRole(jwt.RoleAdmin))
	admin.Delete("/sessions/:id", sessionHandler.Delete)
}
