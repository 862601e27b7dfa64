// Package app provides a dependency injection container for assembling
// the secret management core's components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/secretcore/internal/config"
	"github.com/allisson/secretcore/internal/database"
	"github.com/allisson/secretcore/internal/manager"
	"github.com/allisson/secretcore/internal/master"
	"github.com/allisson/secretcore/internal/metrics"
	"github.com/allisson/secretcore/internal/secretengine"
	"github.com/allisson/secretcore/internal/storage"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Container holds all application dependencies, created lazily on first
// access and cached thereafter — the same pattern the teacher's DI
// container uses, generalised from its user/outbox domains to the secret
// core's own components.
type Container struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB
	mongo  *mongo.Client

	txManager       database.TxManager
	registry        *secretengine.Registry
	masterKey       *master.Key
	storageBackend  storage.Backend
	secretManager   *manager.Manager
	metricsProvider *metrics.Provider
	business        metrics.BusinessMetrics

	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	mongoInit           sync.Once
	txManagerInit       sync.Once
	registryInit        sync.Once
	masterKeyInit       sync.Once
	storageBackendInit  sync.Once
	secretManagerInit   sync.Once
	metricsProviderInit sync.Once
	businessInit        sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the
// provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured structured logger, built once on first
// access based on the configured log level.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// Registry returns the shared Secret Engine cipher registry.
func (c *Container) Registry() *secretengine.Registry {
	c.registryInit.Do(func() {
		c.registry = secretengine.NewRegistry()
	})
	return c.registry
}

// MasterKey returns the process-wide master key, loaded once from
// configuration.
func (c *Container) MasterKey() (*master.Key, error) {
	var err error
	c.masterKeyInit.Do(func() {
		c.masterKey, err = master.Load(c.config.MasterAlgorithm, c.config.MasterKey, c.Registry())
		if err != nil {
			c.initErrors["masterKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKey"]; exists {
		return nil, storedErr
	}
	return c.masterKey, nil
}

// MetricsProvider returns the process's Prometheus registry wrapper.
func (c *Container) MetricsProvider() *metrics.Provider {
	c.metricsProviderInit.Do(func() {
		c.metricsProvider = metrics.NewProvider()
	})
	return c.metricsProvider
}

// BusinessMetrics returns the Secret Manager's operation counters and
// histograms, registered against MetricsProvider's registry.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessInit.Do(func() {
		c.business, err = metrics.NewBusinessMetrics(c.MetricsProvider().Registry(), "secretcore")
		if err != nil {
			c.initErrors["business"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["business"]; exists {
		return nil, storedErr
	}
	return c.business, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.masterKey != nil {
		c.masterKey.Zero()
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if c.mongo != nil {
		if err := c.mongo.Disconnect(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("mongo disconnect: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}
	return nil
}

// initLogger creates a structured JSON logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
