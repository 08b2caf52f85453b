package web

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/ikas-actions/pkg/action"
	"github.com/dukex/ikas-actions/pkg/events"
	"github.com/dukex/ikas-actions/pkg/i18n"
	"github.com/dukex/ikas-actions/pkg/orders"
	"github.com/dukex/ikas-actions/pkg/otelhelper"
)

const (
	ActionOrderDetail = "order-detail"
	ActionOrderList   = "order-list"
)

var targetsRequired = action.Policy{RequireTargets: true}

// OrderDetail handles the single-order action: it fetches the first ID of
// the payload and echoes its identifiers.
func (h *APIHandlers) OrderDetail(c fiber.Ctx) error {
	ctx, span := otelhelper.StartSpan(c.Context(), otelhelper.Tracer("web"), "action.order_detail",
		attribute.String(otelhelper.ActionNameKey, ActionOrderDetail),
	)
	defer span.End()

	req, invocation, err := h.authenticate(c, targetsRequired)
	if err != nil {
		return h.rejectAction(ctx, c, ActionOrderDetail, req, invocation, err)
	}

	span.SetAttributes(invocationAttributes(invocation)...)

	orderID := invocation.IDs()[0]

	order, err := h.orders.FetchOne(ctx, invocation.AuthorizedAppID, orderID)
	if err != nil {
		return h.rejectAction(ctx, c, ActionOrderDetail, req, invocation, err)
	}

	h.logger.InfoContext(ctx, "Order detail action completed",
		"action_run_id", invocation.ActionRunID(),
		"order_id", order.ID,
		"order_number", order.OrderNumber,
	)

	h.recorder.Record(ctx, invocation.AuthorizedAppID, events.ActionCompleted{
		BaseEvent:    events.NewBaseEvent(events.ActionCompletedEvent, invocation.AuthorizedAppID, invocation.MerchantID),
		Action:       ActionOrderDetail,
		ActionRunID:  invocation.ActionRunID(),
		Locale:       invocation.Locale,
		Requested:    1,
		SuccessCount: 1,
	})

	return c.JSON(OrderDetailResponse{
		Success:     true,
		Message:     i18n.T(i18n.OrderDetailSuccess, invocation.Locale),
		ActionRunID: invocation.ActionRunID(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
	})
}

// OrderList handles the multi-order action. Once the batch ran the response is
// 200; success is true when at least one order was fetched.
func (h *APIHandlers) OrderList(c fiber.Ctx) error {
	ctx, span := otelhelper.StartSpan(c.Context(), otelhelper.Tracer("web"), "action.order_list",
		attribute.String(otelhelper.ActionNameKey, ActionOrderList),
	)
	defer span.End()

	req, invocation, err := h.authenticate(c, targetsRequired)
	if err != nil {
		return h.rejectAction(ctx, c, ActionOrderList, req, invocation, err)
	}

	span.SetAttributes(invocationAttributes(invocation)...)
	span.SetAttributes(attribute.Int(otelhelper.OrderCountKey, len(invocation.IDs())))

	result, err := h.orders.FetchBatch(ctx, invocation.AuthorizedAppID, invocation.IDs())
	if err != nil {
		return h.rejectAction(ctx, c, ActionOrderList, req, invocation, err)
	}

	response := newOrderListResponse(invocation, result)

	h.logger.InfoContext(ctx, "Order list action completed",
		"action_run_id", invocation.ActionRunID(),
		"total_orders", response.TotalOrders,
		"success_count", response.SuccessCount,
		"failed_count", response.FailedCount,
	)

	h.recorder.Record(ctx, invocation.AuthorizedAppID, events.ActionCompleted{
		BaseEvent:      events.NewBaseEvent(events.ActionCompletedEvent, invocation.AuthorizedAppID, invocation.MerchantID),
		Action:         ActionOrderList,
		ActionRunID:    invocation.ActionRunID(),
		Locale:         invocation.Locale,
		Requested:      response.TotalOrders,
		SuccessCount:   response.SuccessCount,
		FailedOrderIDs: response.FailedOrderIDs,
	})

	return c.JSON(response)
}

func newOrderListResponse(invocation *action.Invocation, result *orders.BatchResult) OrderListResponse {
	succeeded := result.Succeeded()

	summaries := make([]OrderSummary, 0, len(succeeded))
	for _, summary := range succeeded {
		summaries = append(summaries, OrderSummary{ID: summary.ID, OrderNumber: summary.OrderNumber})
	}

	message := i18n.T(i18n.OrderListSuccess, invocation.Locale, len(summaries))
	if !result.Success() {
		message = i18n.T(i18n.ErrorOrderNotFound, invocation.Locale)
	}

	return OrderListResponse{
		Success:        result.Success(),
		Message:        message,
		ActionRunID:    invocation.ActionRunID(),
		TotalOrders:    result.Requested(),
		SuccessCount:   len(summaries),
		FailedCount:    result.FailedCount(),
		Orders:         summaries,
		FailedOrderIDs: result.FailedIDs(),
	}
}

// authenticate binds the envelope and runs the authentication pipeline.
func (h *APIHandlers) authenticate(c fiber.Ctx, policy action.Policy) (action.Request, *action.Invocation, error) {
	var req action.Request
	if err := c.Bind().JSON(&req); err != nil {
		return req, nil, &action.Error{
			Kind:   action.KindMalformedRequest,
			Err:    action.ErrMissingFields,
			Detail: "invalid request body: " + err.Error(),
		}
	}

	invocation, err := h.authenticator.Authenticate(req, policy)

	return req, invocation, err
}

// rejectAction logs, traces and records a failed action, then writes the
// action error envelope.
func (h *APIHandlers) rejectAction(
	ctx context.Context,
	c fiber.Ctx,
	name string,
	req action.Request,
	invocation *action.Invocation,
	err error,
) error {
	locale := ""
	actionRunID := ""

	if invocation != nil {
		locale = invocation.Locale
		actionRunID = invocation.ActionRunID()
	}

	actionErr := classifyActionError(err, locale)
	status := actionErr.Kind.Status()
	_, reason := describeActionError(actionErr)

	otelhelper.SetError(trace.SpanFromContext(ctx), actionErr)

	level := slog.LevelWarn
	if status >= fiber.StatusInternalServerError {
		level = slog.LevelError
	}

	h.logger.Log(ctx, level, "Action rejected",
		"action", name,
		"kind", actionErr.Kind.String(),
		"status", status,
		"authorized_app_id", req.AuthorizedAppID,
		"action_run_id", actionRunID,
		"error", actionErr,
	)

	h.recorder.Record(ctx, req.AuthorizedAppID, events.ActionRejected{
		BaseEvent:   events.NewBaseEvent(events.ActionRejectedEvent, req.AuthorizedAppID, req.MerchantID),
		Action:      name,
		ActionRunID: actionRunID,
		Kind:        actionErr.Kind.String(),
		Status:      status,
		Reason:      reason,
	})

	return actionError(c, actionErr)
}

func invocationAttributes(invocation *action.Invocation) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(otelhelper.AuthorizedAppIDKey, invocation.AuthorizedAppID),
		attribute.String(otelhelper.MerchantIDKey, invocation.MerchantID),
		attribute.String(otelhelper.ActionRunIDKey, invocation.ActionRunID()),
	}
}
