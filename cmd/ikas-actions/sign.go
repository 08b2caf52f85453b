package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dukex/ikas-actions/pkg/action"
)

// SignCommand prints a signed action envelope, ready to POST to an action
// endpoint.
func SignCommand() *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "Build and sign an action request",
		Flags: []cli.Flag{
			clientSecretFlag(),
			authorizedAppIDFlag(),
			merchantIDFlag(true),
			&cli.StringFlag{
				Name:  "action-run-id",
				Usage: "Action run ID of the payload",
				Value: "local-run",
			},
			&cli.StringSliceFlag{
				Name:  "id",
				Usage: "Target entity ID (repeatable)",
			},
			&cli.StringFlag{
				Name:  "locale",
				Usage: "User locale of the payload",
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Raw data string to sign instead of building a payload",
			},
		},
		Action: func(_ context.Context, command *cli.Command) error {
			secret := command.String("client-secret")
			if secret == "" {
				return fmt.Errorf("%w: --client-secret is required", action.ErrSecretNotConfigured)
			}

			data := command.String("data")
			if data == "" {
				encoded, err := json.Marshal(action.Payload{
					ActionRunID: command.String("action-run-id"),
					IDList:      command.StringSlice("id"),
					UserLocale:  command.String("locale"),
				})
				if err != nil {
					return fmt.Errorf("failed to encode payload: %w", err)
				}

				data = string(encoded)
			}

			envelope := action.Request{
				Signature:       action.Sign(data, secret),
				AuthorizedAppID: command.String("authorized-app-id"),
				MerchantID:      command.String("merchant-id"),
				Data:            data,
			}

			authenticator, err := action.NewAuthenticator(secret, nil)
			if err != nil {
				return err
			}

			if _, err := authenticator.Authenticate(envelope, action.Policy{}); err != nil {
				return fmt.Errorf("signed envelope would be rejected: %w", err)
			}

			encoder := json.NewEncoder(command.Root().Writer)
			encoder.SetIndent("", "  ")

			return encoder.Encode(envelope)
		},
	}
}
