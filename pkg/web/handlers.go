// Package web provides the HTTP handlers of the ikas actions service.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/dukex/ikas-actions/pkg/action"
	"github.com/dukex/ikas-actions/pkg/audit"
	"github.com/dukex/ikas-actions/pkg/credentials"
	"github.com/dukex/ikas-actions/pkg/orders"
)

type APIHandlers struct {
	authenticator *action.Authenticator
	orders        *orders.Service
	store         credentials.Store
	recorder      *audit.Recorder
	logger        *slog.Logger
}

func NewAPIHandlers(
	authenticator *action.Authenticator,
	orderService *orders.Service,
	store credentials.Store,
	recorder *audit.Recorder,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		authenticator: authenticator,
		orders:        orderService,
		store:         store,
		recorder:      recorder,
		logger:        logger.With("module", "web"),
	}
}

// HealthCheck reports the credential store and signing configuration.
func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	storeCheck := "ok"
	storeOk := true

	if err := h.store.HealthCheck(c.Context()); err != nil {
		storeCheck = err.Error()
		storeOk = false
	}

	secretCheck := "ok"
	if !h.authenticator.Configured() {
		secretCheck = "client secret not configured"
	}

	status := "unhealthy"
	message := "ikas actions service is unhealthy"
	httpStatus := http.StatusInternalServerError

	if storeOk {
		status = "healthy"
		message = "ikas actions service is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"credential_store": storeCheck,
			"client_secret":    secretCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
