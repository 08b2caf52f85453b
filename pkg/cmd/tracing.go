package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/ikas-actions/pkg/otelhelper"
)

// SetupTracing installs the OTLP tracer provider when enabled. The returned
// function is always safe to call.
func SetupTracing(ctx context.Context, enabled bool, logger *slog.Logger) (func(context.Context) error, error) {
	if !enabled {
		return func(context.Context) error { return nil }, nil
	}

	shutdown, err := otelhelper.Setup(ctx, serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	logger.InfoContext(ctx, "Tracing enabled", "service", serviceName)

	return shutdown, nil
}
