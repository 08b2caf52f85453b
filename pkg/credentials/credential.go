// Package credentials stores the per-installation tokens used to call the ikas Admin API.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates no credential exists for the given authorized app.
var ErrNotFound = errors.New("credential not found")

// ErrInvalidCredential indicates a credential is missing required fields.
var ErrInvalidCredential = errors.New("invalid credential")

// Credential is the token of one installed app (authorized app).
type Credential struct {
	AuthorizedAppID string    `json:"authorizedAppId"`
	MerchantID      string    `json:"merchantId"`
	AccessToken     string    `json:"accessToken"`
	TokenType       string    `json:"tokenType,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Validate checks the fields every backend requires.
func (c *Credential) Validate() error {
	if c == nil || c.AuthorizedAppID == "" {
		return fmt.Errorf("%w: authorized app id is required", ErrInvalidCredential)
	}

	if c.AccessToken == "" {
		return fmt.Errorf("%w: access token is required", ErrInvalidCredential)
	}

	return nil
}

// AuthorizationHeader returns the value for the HTTP Authorization header.
func (c *Credential) AuthorizationHeader() string {
	tokenType := c.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	return tokenType + " " + c.AccessToken
}

func (c *Credential) touch(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}

	c.UpdatedAt = now
}

// Store is the credential backend.
type Store interface {
	// Get returns the credential of authorizedAppID, or ErrNotFound.
	Get(ctx context.Context, authorizedAppID string) (*Credential, error)
	Save(ctx context.Context, credential *Credential) error
	Delete(ctx context.Context, authorizedAppID string) error

	HealthCheck(ctx context.Context) error
	Close() error
}

// IsNotFound checks if an error indicates a credential was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
