package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dukex/ikas-actions/pkg/ikas"
)

// MockIkasAPI is a mock implementation of ikas.API interface.
type MockIkasAPI struct {
	mock.Mock
}

func (m *MockIkasAPI) FetchOrderByID(ctx context.Context, orderID string) (*ikas.Order, error) {
	args := m.Called(ctx, orderID)

	order, _ := args.Get(0).(*ikas.Order)

	return order, args.Error(1)
}

func (m *MockIkasAPI) GetMerchant(ctx context.Context) (*ikas.Merchant, error) {
	args := m.Called(ctx)

	merchant, _ := args.Get(0).(*ikas.Merchant)

	return merchant, args.Error(1)
}

func (m *MockIkasAPI) GetAuthorizedApp(ctx context.Context) (*ikas.AuthorizedApp, error) {
	args := m.Called(ctx)

	app, _ := args.Get(0).(*ikas.AuthorizedApp)

	return app, args.Error(1)
}

// Factory returns an ikas.Factory that always yields m and records the
// Authorization value it was called with.
func (m *MockIkasAPI) Factory(authorizations *[]string) ikas.Factory {
	return func(authorization string) ikas.API {
		if authorizations != nil {
			*authorizations = append(*authorizations, authorization)
		}

		return m
	}
}

var _ ikas.API = (*MockIkasAPI)(nil)
