package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dukex/ikas-actions/pkg/credentials"
)

// MockCredentialStore is a mock implementation of credentials.Store interface.
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) Get(ctx context.Context, authorizedAppID string) (*credentials.Credential, error) {
	args := m.Called(ctx, authorizedAppID)

	credential, _ := args.Get(0).(*credentials.Credential)

	return credential, args.Error(1)
}

func (m *MockCredentialStore) Save(ctx context.Context, credential *credentials.Credential) error {
	args := m.Called(ctx, credential)

	return args.Error(0)
}

func (m *MockCredentialStore) Delete(ctx context.Context, authorizedAppID string) error {
	args := m.Called(ctx, authorizedAppID)

	return args.Error(0)
}

func (m *MockCredentialStore) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockCredentialStore) Close() error {
	args := m.Called()

	return args.Error(0)
}

var _ credentials.Store = (*MockCredentialStore)(nil)
