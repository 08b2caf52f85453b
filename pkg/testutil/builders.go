// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/dukex/ikas-actions/pkg/credentials"
	"github.com/dukex/ikas-actions/pkg/ikas"
)

// CreateTestCredential creates a Credential for app-1 with default values
// that can be overridden.
func CreateTestCredential(overrides ...func(*credentials.Credential)) *credentials.Credential {
	credential := &credentials.Credential{
		AuthorizedAppID: "app-1",
		MerchantID:      "merchant-1",
		AccessToken:     "token-1",
		TokenType:       "Bearer",
	}

	for _, override := range overrides {
		override(credential)
	}

	return credential
}

// WithAccessToken sets the credential token.
func WithAccessToken(token string) func(*credentials.Credential) {
	return func(c *credentials.Credential) {
		c.AccessToken = token
	}
}

// CreateTestOrder creates an Order with a random ID.
func CreateTestOrder(overrides ...func(*ikas.Order)) *ikas.Order {
	order := &ikas.Order{
		ID:                 uuid.New().String(),
		OrderNumber:        "1001",
		OrderedAt:          time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC).UnixMilli(),
		Status:             "CREATED",
		OrderPaymentStatus: "PAID",
		TotalFinalPrice:    149.9,
		CurrencyCode:       "TRY",
	}

	for _, override := range overrides {
		override(order)
	}

	return order
}

// WithOrderID sets the order ID.
func WithOrderID(id string) func(*ikas.Order) {
	return func(o *ikas.Order) {
		o.ID = id
	}
}

// WithOrderNumber sets the order number.
func WithOrderNumber(number string) func(*ikas.Order) {
	return func(o *ikas.Order) {
		o.OrderNumber = number
	}
}
