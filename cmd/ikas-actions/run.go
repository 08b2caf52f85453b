package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dukex/ikas-actions/pkg/audit"
	"github.com/dukex/ikas-actions/pkg/channels/kafka"
	"github.com/dukex/ikas-actions/pkg/cmd"
	"github.com/dukex/ikas-actions/pkg/log"
	"github.com/dukex/ikas-actions/pkg/orders"
	"github.com/dukex/ikas-actions/pkg/session"
)

const defaultPort = 3000

func RunCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Start the actions API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			clientSecretFlag(),
			sessionSecretFlag(),
			&cli.DurationFlag{
				Name:    "session-ttl",
				Usage:   "Lifetime of dashboard session tokens",
				Value:   session.DefaultTTL,
				Sources: cli.EnvVars("SESSION_TTL"),
			},
			credentialStoreFlag(),
			ikasAPIURLFlag(),
			&cli.IntFlag{
				Name:    "fetch-concurrency",
				Usage:   "Maximum parallel order fetches per batch",
				Value:   orders.DefaultConcurrency,
				Sources: cli.EnvVars("FETCH_CONCURRENCY"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Audit event bus type (memory, kafka)",
				Value:   "memory",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers",
				Value:   "localhost:9092",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			logLevelFlag(),
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("api")

			logger.InfoContext(ctx, "Initializing ikas actions API")

			shutdownTracing, err := cmd.SetupTracing(ctx, command.Bool("tracing"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
					logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
				}
			}()

			store, err := cmd.NewCredentialStore(ctx, logger, command.String("credential-store"))
			if err != nil {
				return err
			}

			defer func() {
				if err := store.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close credential store", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(
				command.String("event-bus"),
				kafka.ParseBrokers(command.String("kafka-brokers")),
				logger,
			)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			if err := audit.NewLogSink(logger).Register(eventBus); err != nil {
				return fmt.Errorf("failed to register audit sink: %w", err)
			}

			if err := eventBus.Subscribe(ctx); err != nil {
				return fmt.Errorf("failed to subscribe to audit events: %w", err)
			}

			config := APIConfig{
				ClientSecret:     command.String("client-secret"),
				SessionSecret:    command.String("session-secret"),
				SessionTTL:       command.Duration("session-ttl"),
				IkasEndpoint:     command.String("ikas-api-url"),
				FetchConcurrency: command.Int("fetch-concurrency"),
			}

			if config.ClientSecret == "" {
				logger.WarnContext(ctx, "CLIENT_SECRET is not set; every action request will fail")
			}

			if config.SessionSecret == "" {
				logger.WarnContext(ctx, "SESSION_SECRET is not set; dashboard endpoints will reject every request")
			}

			api, err := NewAPI(logger, store, eventBus, config)
			if err != nil {
				return err
			}

			return api.Start(ctx, command.Int("port"))
		},
	}
}
