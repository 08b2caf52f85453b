package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dukex/ikas-actions/pkg/session"
)

// SessionCommand mints dashboard session tokens for local testing.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Dashboard session tokens",
		Commands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Issue a session token for an authorized app",
				Flags: []cli.Flag{
					sessionSecretFlag(),
					authorizedAppIDFlag(),
					merchantIDFlag(true),
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "Token lifetime",
						Value: session.DefaultTTL,
					},
				},
				Action: func(_ context.Context, command *cli.Command) error {
					manager := session.NewManager(command.String("session-secret"), command.Duration("ttl"))

					token, err := manager.Issue(command.String("authorized-app-id"), command.String("merchant-id"))
					if err != nil {
						return err
					}

					_, err = fmt.Fprintln(command.Root().Writer, token)

					return err
				},
			},
		},
	}
}
