package http

import (
	"go.uber.org/fx"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/delivery/http/handler"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/delivery/http/router"
)

var Module = fx.Module("http",
	fx.Provide(
		handler.NewSignHandler,
		handler.NewWatermarkHandler,
		handler.NewHealthHandler,
		router.NewRouter,
	),
)
