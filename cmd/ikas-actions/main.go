// Package main provides the ikas actions service binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// NewRootCommand returns the ikas-actions command tree.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:                  "ikas-actions",
		Usage:                 "Serve ikas dashboard actions and manage app credentials",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			RunCommand(),
			SignCommand(),
			CredentialsCommand(),
			SessionCommand(),
		},
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		Value:   "info",
		Sources: cli.EnvVars("LOG_LEVEL"),
	}
}

func credentialStoreFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "credential-store",
		Usage:   "Credential store URL (file://dir, postgres://..., redis://...)",
		Value:   "file://./data",
		Sources: cli.EnvVars("DATABASE_URL"),
	}
}

func clientSecretFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "client-secret",
		Usage:   "Shared secret used to sign action payloads",
		Sources: cli.EnvVars("CLIENT_SECRET"),
	}
}

func sessionSecretFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "session-secret",
		Usage:   "Secret used to sign dashboard session tokens",
		Sources: cli.EnvVars("SESSION_SECRET"),
	}
}

func ikasAPIURLFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "ikas-api-url",
		Usage:   "ikas Admin GraphQL endpoint",
		Value:   "https://api.myikas.com/api/v1/admin/graphql",
		Sources: cli.EnvVars("IKAS_API_URL"),
	}
}

func authorizedAppIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "authorized-app-id",
		Usage:    "Authorized app (installation) ID",
		Required: true,
	}
}

func merchantIDFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "merchant-id",
		Usage:    "Merchant ID",
		Required: required,
	}
}
