package web

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dukex/ikas-actions/pkg/events"
	"github.com/dukex/ikas-actions/pkg/i18n"
	"github.com/dukex/ikas-actions/pkg/otelhelper"
	"github.com/dukex/ikas-actions/pkg/session"
)

// GetOrder returns one order to the dashboard iframe of the session's installation.
func (h *APIHandlers) GetOrder(c fiber.Ctx) error {
	claims, ok := session.FromContext(c)
	if !ok {
		return unauthorized(c)
	}

	orderID := strings.TrimSpace(c.Query("orderId"))
	if orderID == "" {
		return badRequest(c, i18n.T(i18n.ErrorNoOrderID, dashboardLocale(c)))
	}

	ctx, span := otelhelper.StartSpan(c.Context(), otelhelper.Tracer("web"), "dashboard.get_order",
		attribute.String(otelhelper.AuthorizedAppIDKey, claims.AuthorizedAppID),
		attribute.String(otelhelper.OrderIDKey, orderID),
	)
	defer span.End()

	order, err := h.orders.FetchOne(ctx, claims.AuthorizedAppID, orderID)
	if err != nil {
		otelhelper.SetError(span, err)
		h.logger.WarnContext(ctx, "Dashboard order request failed", "order_id", orderID, "error", err)

		return handleServiceError(c, err, i18n.ErrorDashboardFailed)
	}

	h.logger.InfoContext(ctx, "Order accessed via dashboard",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"merchant_id", claims.MerchantID,
		"authorized_app_id", claims.AuthorizedAppID,
	)

	h.recorder.Record(ctx, claims.AuthorizedAppID, events.OrderAccessed{
		BaseEvent:   events.NewBaseEvent(events.OrderAccessedEvent, claims.AuthorizedAppID, claims.MerchantID),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Source:      "dashboard",
	})

	return c.JSON(GetOrderResponse{Data: OrderData{Order: order}})
}

// GetMerchant returns the merchant of the session's installation.
func (h *APIHandlers) GetMerchant(c fiber.Ctx) error {
	claims, ok := session.FromContext(c)
	if !ok {
		return unauthorized(c)
	}

	merchant, err := h.orders.Merchant(c.Context(), claims.AuthorizedAppID)
	if err != nil {
		h.logger.WarnContext(c.Context(), "Dashboard merchant request failed", "error", err)

		return handleServiceError(c, err, i18n.ErrorFailed)
	}

	return c.JSON(GetMerchantResponse{Data: MerchantData{Merchant: merchant}})
}

func unauthorized(c fiber.Ctx) error {
	problem := problems.NewStatusProblem(fiber.StatusUnauthorized).
		WithInstance(c.Path()).
		WithType("unauthorized").
		WithDetail(i18n.T(i18n.ErrorUnableToAuthenticate, dashboardLocale(c)))

	return c.Status(fiber.StatusUnauthorized).JSON(problem)
}
