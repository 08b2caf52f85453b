// Package orders fetches ikas orders on behalf of an authenticated installation.
package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/dukex/ikas-actions/pkg/credentials"
	"github.com/dukex/ikas-actions/pkg/ikas"
	"github.com/dukex/ikas-actions/pkg/otelhelper"
)

// DefaultConcurrency bounds the number of in-flight fetches of one batch.
const DefaultConcurrency = 8

// Service resolves the installation's credential and calls the ikas API with it.
type Service struct {
	store       credentials.Store
	newAPI      ikas.Factory
	concurrency int
	logger      *slog.Logger
}

// NewService creates a Service. A concurrency below one uses DefaultConcurrency.
func NewService(store credentials.Store, newAPI ikas.Factory, concurrency int, logger *slog.Logger) *Service {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	return &Service{
		store:       store,
		newAPI:      newAPI,
		concurrency: concurrency,
		logger:      logger.With("module", "orders"),
	}
}

// API returns a client bound to the credential of authorizedAppID. The error
// wraps credentials.ErrNotFound when the app has no stored token.
//
//nolint:ireturn
func (s *Service) API(ctx context.Context, authorizedAppID string) (ikas.API, error) {
	credential, err := s.store.Get(ctx, authorizedAppID)
	if err != nil {
		if credentials.IsNotFound(err) {
			s.logger.WarnContext(ctx, "Auth token not found", "authorized_app_id", authorizedAppID)
		}

		return nil, fmt.Errorf("failed to load credential for %s: %w", authorizedAppID, err)
	}

	return s.newAPI(credential.AuthorizationHeader()), nil
}

// FetchOne fetches a single order. The error wraps ikas.ErrOrderNotFound
// when the query returns nothing.
func (s *Service) FetchOne(ctx context.Context, authorizedAppID, orderID string) (*ikas.Order, error) {
	ctx, span := otelhelper.StartSpan(ctx, otelhelper.Tracer("orders"), "orders.fetch_one",
		attribute.String(otelhelper.AuthorizedAppIDKey, authorizedAppID),
		attribute.String(otelhelper.OrderIDKey, orderID),
	)
	defer span.End()

	api, err := s.API(ctx, authorizedAppID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	order, err := fetch(ctx, api, orderID)
	if err != nil {
		otelhelper.SetError(span, err)
		s.logger.ErrorContext(ctx, "Failed to fetch order", "order_id", orderID, "error", err)

		return nil, err
	}

	s.logOrder(ctx, order)

	return order, nil
}

// FetchBatch fetches every order of orderIDs in parallel. Individual failures
// are recorded in the result; only the credential lookup fails the batch.
func (s *Service) FetchBatch(ctx context.Context, authorizedAppID string, orderIDs []string) (*BatchResult, error) {
	ctx, span := otelhelper.StartSpan(ctx, otelhelper.Tracer("orders"), "orders.fetch_batch",
		attribute.String(otelhelper.AuthorizedAppIDKey, authorizedAppID),
		attribute.Int(otelhelper.OrderCountKey, len(orderIDs)),
	)
	defer span.End()

	api, err := s.API(ctx, authorizedAppID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	result := &BatchResult{Outcomes: make([]Outcome, len(orderIDs))}

	var group errgroup.Group

	group.SetLimit(s.concurrency)

	for i, orderID := range orderIDs {
		group.Go(func() error {
			order, err := fetch(ctx, api, orderID)
			result.Outcomes[i] = Outcome{OrderID: orderID, Order: order, Err: err}

			return nil
		})
	}

	_ = group.Wait()

	for i, outcome := range result.Outcomes {
		if outcome.Err != nil {
			s.logger.ErrorContext(ctx, "Failed to fetch order",
				"order_id", outcome.OrderID, "position", i+1, "total", len(orderIDs), "error", outcome.Err)

			continue
		}

		s.logOrder(ctx, outcome.Order)
	}

	s.logger.InfoContext(ctx, "Order batch completed",
		"requested", result.Requested(),
		"successful", result.SuccessCount(),
		"failed", result.FailedCount(),
	)

	return result, nil
}

// Merchant returns the merchant owning authorizedAppID.
func (s *Service) Merchant(ctx context.Context, authorizedAppID string) (*ikas.Merchant, error) {
	api, err := s.API(ctx, authorizedAppID)
	if err != nil {
		return nil, err
	}

	merchant, err := api.GetMerchant(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch merchant: %w", err)
	}

	return merchant, nil
}

// fetch calls the API, turning a panic of the client into an error.
func fetch(ctx context.Context, api ikas.API, orderID string) (order *ikas.Order, err error) {
	defer func() {
		if r := recover(); r != nil {
			order = nil
			err = fmt.Errorf("%w: panic while fetching order %s: %v", ikas.ErrUpstream, orderID, r)
		}
	}()

	order, err = api.FetchOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order == nil {
		return nil, ikas.ErrOrderNotFound
	}

	return order, nil
}

func (s *Service) logOrder(ctx context.Context, order *ikas.Order) {
	orderedAt := "N/A"
	if t := order.OrderedTime(); !t.IsZero() {
		orderedAt = t.Format(time.RFC3339)
	}

	s.logger.InfoContext(ctx, "Order retrieved",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"ordered_at", orderedAt,
		"status", order.Status,
		"payment_status", order.OrderPaymentStatus,
		"package_status", order.OrderPackageStatus,
		"total", order.TotalFinalPrice,
		"currency", order.CurrencyCode,
		"customer", order.CustomerName(),
		"shipping_address", order.ShippingAddress.Summary(),
		"item_count", order.ItemCount(),
	)
}
