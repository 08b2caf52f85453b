package main

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/dukex/ikas-actions/pkg/action"
	"github.com/dukex/ikas-actions/pkg/audit"
	"github.com/dukex/ikas-actions/pkg/credentials"
	"github.com/dukex/ikas-actions/pkg/eventbus"
	"github.com/dukex/ikas-actions/pkg/ikas"
	"github.com/dukex/ikas-actions/pkg/orders"
	"github.com/dukex/ikas-actions/pkg/session"
	"github.com/dukex/ikas-actions/pkg/web"
)

const shutdownTimeout = 10 * time.Second

// APIConfig holds the runtime settings of the API.
type APIConfig struct {
	ClientSecret     string
	SessionSecret    string
	SessionTTL       time.Duration
	IkasEndpoint     string
	FetchConcurrency int
}

type API struct {
	logger        *slog.Logger
	store         credentials.Store
	publisher     eventbus.EventPublisher
	authenticator *action.Authenticator
	sessions      *session.Manager
	orders        *orders.Service
}

func NewAPI(
	logger *slog.Logger,
	store credentials.Store,
	publisher eventbus.EventPublisher,
	config APIConfig,
) (*API, error) {
	authenticator, err := action.NewAuthenticator(config.ClientSecret, validator.New(validator.WithRequiredStructEnabled()))
	if err != nil {
		return nil, err
	}

	newAPI := ikas.NewFactory(ikas.Config{Endpoint: config.IkasEndpoint})

	return &API{
		logger:        logger,
		store:         store,
		publisher:     publisher,
		authenticator: authenticator,
		sessions:      session.NewManager(config.SessionSecret, config.SessionTTL),
		orders:        orders.NewService(store, newAPI, config.FetchConcurrency, logger),
	}, nil
}

func (a *API) App() *fiber.App {
	recorder := audit.NewRecorder(a.publisher, a.logger)
	handlers := web.NewAPIHandlers(a.authenticator, a.orders, a.store, recorder, a.logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: web.ErrorHandler(a.logger),
	})
	app.Use(fiberrecover.New())
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("ikas actions")
	})

	app.Post("/api/actions/order-detail", handlers.OrderDetail)

	ikasGroup := app.Group("/api/ikas")
	ikasGroup.Post("/actions/order-list", handlers.OrderList)

	// Dashboard iframe endpoints. Trailing handlers run before the first one,
	// so the session middleware goes last.
	ikasGroup.Get("/get-order", handlers.GetOrder, a.sessions.Middleware())
	ikasGroup.Get("/get-merchant", handlers.GetMerchant, a.sessions.Middleware())

	app.Get("/health", handlers.HealthCheck)

	return app
}

// Start serves on port until ctx is cancelled.
func (a *API) Start(ctx context.Context, port int) error {
	app := a.App()

	errCh := make(chan error, 1)

	go func() {
		errCh <- app.Listen(":" + strconv.Itoa(port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("Shutting down ikas actions API")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		return nil
	}
}
