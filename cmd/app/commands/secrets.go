package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/allisson/secretcore/internal/manager"
)

// ParseKeyValues turns a list of "key=value" pairs (as passed via repeated
// --set flags) into the map StoreSecrets expects. Returns an error on the
// first entry missing an "=".
func ParseKeyValues(pairs []string) (map[string]string, error) {
	data := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set value %q, expected key=value", pair)
		}
		data[key] = value
	}
	return data, nil
}

// RunPut stores one or more secrets under applicationID, bootstrapping the
// application's DEK on first use (§4.4).
func RunPut(ctx context.Context, mgr *manager.Manager, logger *slog.Logger, applicationID, algorithm string, data map[string]string) error {
	if len(data) == 0 {
		return fmt.Errorf("at least one --set key=value is required")
	}

	if err := mgr.StoreSecrets(ctx, applicationID, data, algorithm); err != nil {
		return fmt.Errorf("failed to store secrets: %w", err)
	}

	logger.Info("secrets stored",
		slog.String("application_id", applicationID),
		slog.Int("count", len(data)),
	)
	return nil
}

// RunGet retrieves and prints a single secret's plaintext value.
func RunGet(ctx context.Context, mgr *manager.Manager, writer io.Writer, applicationID, secretKey string) error {
	plaintext, err := mgr.RetrieveSecret(ctx, applicationID, secretKey)
	if err != nil {
		return fmt.Errorf("failed to retrieve secret: %w", err)
	}

	_, _ = fmt.Fprintln(writer, plaintext)
	return nil
}

// RunDelete tombstones a single secret. Idempotent per §8 property 6.
func RunDelete(ctx context.Context, mgr *manager.Manager, logger *slog.Logger, applicationID, secretKey string) error {
	if err := mgr.DeleteSecret(ctx, applicationID, secretKey); err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	logger.Info("secret deleted",
		slog.String("application_id", applicationID),
		slog.String("secret_key", secretKey),
	)
	return nil
}
