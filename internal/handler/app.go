package handler

import (
	"time"

	"github.com/alexanderramin/ponto/internal/handler/middleware"
	"github.com/alexanderramin/ponto/internal/service"
	"github.com/alexanderramin/ponto/pkg/jwt"
	"github.com/alexanderramin/ponto/pkg/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AppDeps are the collaborators of the HTTP app.
type AppDeps struct {
	TimeClock    service.TimeClockService
	Approvals    service.ApprovalService
	DB           Pinger
	Tokens       *jwt.TokenService
	Logger       *logrus.Logger
	Now          func() time.Time
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp wires middlewares, handlers and routes into a fiber app.
func NewApp(d AppDeps) *fiber.App {
	now := d.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	app := fiber.New(fiber.Config{
		AppName:               "ponto",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(d.Logger),
		ReadTimeout:           d.ReadTimeout,
		WriteTimeout:          d.WriteTimeout,
	})

	app.Use(middleware.Recovery(d.Logger))
	app.Use(middleware.Logger(d.Logger))

	validate := validator.NewValidator()
	SetupRoutes(app,
		NewSessionHandler(d.TimeClock, validate, now, d.Logger),
		NewReviewHandler(d.Approvals, validate, now, d.Logger),
		NewHealthHandler(d.DB),
		middleware.Auth(d.Tokens),
	)
	return app
}
