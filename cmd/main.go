package main

import (
	"go.uber.org/fx"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/config"
	deliveryhttp "github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/delivery/http"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/infrastructure/database"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/infrastructure/logger"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/infrastructure/repository"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/infrastructure/watermark"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/server"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/usecase"
)

func main() {
	fx.New(
		// Configuration
		config.Module,

		// Infrastructure
		logger.Module,
		database.Module,
		repository.Module,
		watermark.Module,

		// Business Logic
		usecase.Module,

		// Delivery
		deliveryhttp.Module,

		// Server
		server.Module,
	).Run()
}
