package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dukex/ikas-actions/pkg/cmd"
	"github.com/dukex/ikas-actions/pkg/credentials"
	"github.com/dukex/ikas-actions/pkg/ikas"
	"github.com/dukex/ikas-actions/pkg/log"
	"github.com/dukex/ikas-actions/pkg/orders"
)

// CredentialsCommand manages the stored app tokens.
func CredentialsCommand() *cli.Command {
	return &cli.Command{
		Name:  "credentials",
		Usage: "Manage authorized app credentials",
		Commands: []*cli.Command{
			{
				Name:  "put",
				Usage: "Store the access token of an authorized app",
				Flags: []cli.Flag{
					credentialStoreFlag(),
					authorizedAppIDFlag(),
					merchantIDFlag(false),
					&cli.StringFlag{
						Name:     "access-token",
						Usage:    "Admin API access token",
						Required: true,
						Sources:  cli.EnvVars("IKAS_ACCESS_TOKEN"),
					},
					&cli.StringFlag{
						Name:  "token-type",
						Usage: "Authorization scheme of the token",
						Value: "Bearer",
					},
					logLevelFlag(),
				},
				Action: withStore(func(ctx context.Context, command *cli.Command, store credentials.Store) error {
					credential := &credentials.Credential{
						AuthorizedAppID: command.String("authorized-app-id"),
						MerchantID:      command.String("merchant-id"),
						AccessToken:     command.String("access-token"),
						TokenType:       command.String("token-type"),
					}

					if err := store.Save(ctx, credential); err != nil {
						return err
					}

					_, err := fmt.Fprintf(command.Root().Writer, "stored credential for %s\n", credential.AuthorizedAppID)

					return err
				}),
			},
			{
				Name:  "delete",
				Usage: "Remove the credential of an authorized app",
				Flags: []cli.Flag{
					credentialStoreFlag(),
					authorizedAppIDFlag(),
					logLevelFlag(),
				},
				Action: withStore(func(ctx context.Context, command *cli.Command, store credentials.Store) error {
					appID := command.String("authorized-app-id")
					if err := store.Delete(ctx, appID); err != nil {
						return err
					}

					_, err := fmt.Fprintf(command.Root().Writer, "deleted credential for %s\n", appID)

					return err
				}),
			},
			{
				Name:  "check",
				Usage: "Call the ikas API with a stored credential",
				Flags: []cli.Flag{
					credentialStoreFlag(),
					authorizedAppIDFlag(),
					ikasAPIURLFlag(),
					logLevelFlag(),
				},
				Action: withStore(func(ctx context.Context, command *cli.Command, store credentials.Store) error {
					service := orders.NewService(
						store,
						ikas.NewFactory(ikas.Config{Endpoint: command.String("ikas-api-url")}),
						1,
						log.WithModule("credentials"),
					)

					api, err := service.API(ctx, command.String("authorized-app-id"))
					if err != nil {
						return err
					}

					app, err := api.GetAuthorizedApp(ctx)
					if err != nil {
						return err
					}

					_, err = fmt.Fprintf(command.Root().Writer, "authorized app %s (sales channel %s)\n", app.ID, app.SalesChannelID)

					return err
				}),
			},
		},
	}
}

func withStore(run func(context.Context, *cli.Command, credentials.Store) error) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		log.Setup(command.String("log-level"))

		logger := log.WithModule("credentials")

		store, err := cmd.NewCredentialStore(ctx, logger, command.String("credential-store"))
		if err != nil {
			return err
		}

		defer func() {
			if err := store.Close(); err != nil {
				logger.ErrorContext(ctx, "Failed to close credential store", "error", err)
			}
		}()

		return run(ctx, command, store)
	}
}
