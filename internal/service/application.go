package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"

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

// Application wraps the fx.App for service management
type Application struct {
	app      *fx.App
	ctx      context.Context
	cancel   context.CancelFunc
	doneChan chan struct{}
}

func NewApplication() *Application {
	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		ctx:      ctx,
		cancel:   cancel,
		doneChan: make(chan struct{}),
	}
}

// Run starts the application and blocks until shutdown.
func (a *Application) Run() {
	a.app = fx.New(
		fx.Provide(func() context.Context { return a.ctx }),

		config.Module,

		logger.Module,
		database.Module,
		repository.Module,
		watermark.Module,

		usecase.Module,

		deliveryhttp.Module,

		server.Module,
	)

	if err := a.app.Start(a.ctx); err != nil {
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		a.Shutdown()
	case <-a.ctx.Done():
		// Context was cancelled
	}

	close(a.doneChan)
}

// Shutdown gracefully shuts down the application
func (a *Application) Shutdown() {
	a.cancel()
	if a.app != nil {
		ctx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
		defer cancel()
		a.app.Stop(ctx)
	}
}

// Wait blocks until the application exits
func (a *Application) Wait() {
	<-a.doneChan
}
