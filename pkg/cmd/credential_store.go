// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/ikas-actions/pkg/credentials"
)

// DefaultCredentialStore is used when no store URL is configured.
const DefaultCredentialStore = "file://./data"

var supportedStoreProviders = []string{"file", "postgres", "postgresql", "redis", "rediss"}

// NewCredentialStore opens the credential backend named by the scheme of
// storeURL: file://dir, postgres://..., or redis://.... A URL without a
// known scheme is treated as a file store directory.
//
//nolint:ireturn
func NewCredentialStore(ctx context.Context, logger *slog.Logger, storeURL string) (credentials.Store, error) {
	provider, location := parseStoreURL(storeURL)

	logger.InfoContext(ctx, "Opening credential store", "provider", provider)

	switch provider {
	case "postgres", "postgresql":
		store, err := credentials.NewPostgresStore(ctx, logger, storeURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres credential store: %w", err)
		}

		return store, nil
	case "redis", "rediss":
		store, err := credentials.NewRedisStore(ctx, logger, storeURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis credential store: %w", err)
		}

		return store, nil
	default:
		store, err := credentials.NewFileStore(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open file credential store: %w", err)
		}

		return store, nil
	}
}

func parseStoreURL(storeURL string) (string, string) {
	if storeURL == "" {
		storeURL = DefaultCredentialStore
	}

	scheme, rest, found := strings.Cut(storeURL, "://")
	if !found {
		return "file", storeURL
	}

	for _, supported := range supportedStoreProviders {
		if scheme == supported {
			if rest == "" {
				rest = "./data"
			}

			return scheme, rest
		}
	}

	return "file", storeURL
}
