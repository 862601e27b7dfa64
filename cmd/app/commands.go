package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/secretcore/cmd/app/commands"
	"github.com/allisson/secretcore/internal/app"
	"github.com/allisson/secretcore/internal/config"
	"github.com/allisson/secretcore/internal/manager"
)

func getCommands(version string) []*cli.Command {
	return []*cli.Command{
		createMasterKeyCommand(),
		migrateStatusCommand(),
		putCommand(),
		getCommand(),
		deleteCommand(),
	}
}

func createMasterKeyCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-master-key",
		Usage: "Generate a new master key for envelope encryption",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "algorithm",
				Aliases: []string{"alg"},
				Value:   "",
				Usage:   "Algorithm tag (aes128-gcm96, aes256-gcm96, chacha20-poly1305); defaults to aes256-gcm96",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return commands.RunCreateMasterKey(os.Stdout, cmd.String("algorithm"))
		},
	}
}

func migrateStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate-status",
		Usage: "List the schema files shipped for the configured database driver",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return commands.RunMigrateStatus(os.Stdout, cfg.SecretDBDriver)
		},
	}
}

func putCommand() *cli.Command {
	return &cli.Command{
		Name:      "put",
		Usage:     "Store one or more secrets for an application",
		ArgsUsage: "<application-id>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "set",
				Aliases: []string{"s"},
				Usage:   "key=value pair, repeatable",
			},
			&cli.StringFlag{
				Name:  "algorithm",
				Usage: "Secret Engine algorithm to bootstrap with, if this is the application's first secret",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applicationID := cmd.Args().First()
			if applicationID == "" {
				return fmt.Errorf("application-id argument is required")
			}

			data, err := commands.ParseKeyValues(cmd.StringSlice("set"))
			if err != nil {
				return err
			}

			return withManager(ctx, func(container *app.Container, logger *slog.Logger, mgr *manager.Manager) error {
				return commands.RunPut(ctx, mgr, logger, applicationID, cmd.String("algorithm"), data)
			})
		},
	}
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Retrieve a single secret's plaintext value",
		ArgsUsage: "<application-id> <secret-key>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applicationID := cmd.Args().Get(0)
			secretKey := cmd.Args().Get(1)
			if applicationID == "" || secretKey == "" {
				return fmt.Errorf("application-id and secret-key arguments are required")
			}

			return withManager(ctx, func(container *app.Container, logger *slog.Logger, mgr *manager.Manager) error {
				return commands.RunGet(ctx, mgr, os.Stdout, applicationID, secretKey)
			})
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Tombstone a single secret",
		ArgsUsage: "<application-id> <secret-key>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applicationID := cmd.Args().Get(0)
			secretKey := cmd.Args().Get(1)
			if applicationID == "" || secretKey == "" {
				return fmt.Errorf("application-id and secret-key arguments are required")
			}

			return withManager(ctx, func(container *app.Container, logger *slog.Logger, mgr *manager.Manager) error {
				return commands.RunDelete(ctx, mgr, logger, applicationID, secretKey)
			})
		},
	}
}
