package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/config"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/delivery/http/handler"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/delivery/http/middleware"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
)

type Router struct {
	app              *fiber.App
	config           *config.Config
	signHandler      *handler.SignHandler
	watermarkHandler *handler.WatermarkHandler
	healthHandler    *handler.HealthHandler
}

func NewRouter(
	cfg *config.Config,
	signHandler *handler.SignHandler,
	watermarkHandler *handler.WatermarkHandler,
	healthHandler *handler.HealthHandler,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: customErrorHandler,
	})

	return &Router{
		app:              app,
		config:           cfg,
		signHandler:      signHandler,
		watermarkHandler: watermarkHandler,
		healthHandler:    healthHandler,
	}
}

func (r *Router) Setup() *fiber.App {
	// Middleware
	r.app.Use(recover.New())
	r.app.Use(requestid.New())
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-API-KEY",
	}))

	if r.config.IsDevelopment() {
		r.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	// Health check stays outside the API-key gate
	r.app.Get("/health", r.healthHandler.Health)

	// Everything under /api requires the configured key
	api := r.app.Group("/api", middleware.NewAPIKeyGate(r.config.Security.APIKey))
	{
		sign := api.Group("/sign")
		{
			sign.Post("/auto-pades", r.signHandler.AutoPades)
		}

		wm := api.Group("/watermark")
		{
			wm.Post("/crea", r.watermarkHandler.Create)
		}
	}

	return r.app
}

func (r *Router) GetApp() *fiber.App {
	return r.app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(entity.NewErrorResponse("INTERNAL_ERROR", err.Error()))
}
