package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/allisson/secretcore/internal/database"
	"github.com/allisson/secretcore/internal/manager"
	"github.com/allisson/secretcore/internal/storage"
	"github.com/allisson/secretcore/internal/storage/mongostore"
	storagesql "github.com/allisson/secretcore/internal/storage/sql"
)

// DB returns the relational database connection. Only used when
// SECRET_DB_TYPE is "relational".
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the relational transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		db, dbErr := c.DB()
		if dbErr != nil {
			err = dbErr
			c.initErrors["txManager"] = err
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// Mongo returns the document database client. Only used when
// SECRET_DB_TYPE is "mongo".
func (c *Container) Mongo(ctx context.Context) (*mongo.Client, error) {
	var err error
	c.mongoInit.Do(func() {
		c.mongo, err = mongo.Connect(options.Client().ApplyURI(c.config.SecretDBURI))
		if err != nil {
			c.initErrors["mongo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mongo"]; exists {
		return nil, storedErr
	}
	return c.mongo, nil
}

// StorageBackend returns the concrete storage.Backend selected by
// SECRET_DB_TYPE (§6): "relational" for the SQL backend parameterised by
// SECRET_DB_DRIVER, or "mongo" for the document backend.
func (c *Container) StorageBackend(ctx context.Context) (storage.Backend, error) {
	var err error
	c.storageBackendInit.Do(func() {
		c.storageBackend, err = c.initStorageBackend(ctx)
		if err != nil {
			c.initErrors["storageBackend"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["storageBackend"]; exists {
		return nil, storedErr
	}
	return c.storageBackend, nil
}

func (c *Container) initStorageBackend(ctx context.Context) (storage.Backend, error) {
	switch c.config.SecretDBType {
	case "mongo":
		client, err := c.Mongo(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get mongo client: %w", err)
		}
		return mongostore.New(ctx, client.Database(c.config.SecretDBName))

	case "relational":
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database: %w", err)
		}

		var dialect storagesql.Dialect
		switch c.config.SecretDBDriver {
		case "mysql":
			dialect = storagesql.MySQL
		case "postgres":
			dialect = storagesql.Postgres
		default:
			return nil, fmt.Errorf("unsupported secret db driver: %s", c.config.SecretDBDriver)
		}
		return storagesql.New(db, dialect), nil

	default:
		return nil, fmt.Errorf("unsupported secret db type: %s", c.config.SecretDBType)
	}
}

// SecretManager returns the fully-wired Secret Manager.
func (c *Container) SecretManager(ctx context.Context) (*manager.Manager, error) {
	var err error
	c.secretManagerInit.Do(func() {
		c.secretManager, err = c.initSecretManager(ctx)
		if err != nil {
			c.initErrors["secretManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretManager"]; exists {
		return nil, storedErr
	}
	return c.secretManager, nil
}

func (c *Container) initSecretManager(ctx context.Context) (*manager.Manager, error) {
	masterKey, err := c.MasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key: %w", err)
	}

	backend, err := c.StorageBackend(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage backend: %w", err)
	}

	return manager.New(backend, masterKey, c.Registry()), nil
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(
		dbDriverName(c.config.SecretDBDriver),
		c.config.SecretDBURI,
		c.config.SecretDBMaxOpenConnections,
		c.config.SecretDBMaxIdleConnections,
		c.config.SecretDBConnMaxLifetime,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// dbDriverName maps the SECRET_DB_DRIVER config value onto the
// database/sql driver name registered by the blank-imported driver
// package (lib/pq registers as "postgres"; go-sql-driver/mysql as
// "mysql" — they happen to coincide with our own driver names).
func dbDriverName(driver string) string {
	return driver
}
