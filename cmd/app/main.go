// Package main provides the entry point for the secret core's CLI.
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

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:     "app",
		Usage:    "Envelope-encrypted secret storage core",
		Version:  version,
		Commands: getCommands(version),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// withManager loads configuration, builds a Container, and runs fn against
// its Secret Manager, releasing the container's resources (database
// connections, master key material) on return.
func withManager(ctx context.Context, fn func(container *app.Container, logger *slog.Logger, mgr *manager.Manager) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer commands.CloseContainer(container, logger)

	mgr, err := container.SecretManager(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize secret manager: %w", err)
	}

	return fn(container, logger, mgr)
}
