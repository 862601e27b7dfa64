// Package database provides the relational connection pool and the
// transaction plumbing the sql storage backend's tombstone+insert Update
// needs to run atomically.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Connect opens a pool against driver/connectionString and verifies it
// with a ping before returning. Pool limits come from the caller's own
// config.Config fields — kept as plain parameters here rather than a
// second Config type duplicating those fields.
func Connect(driver, connectionString string, maxOpenConnections, maxIdleConnections int, connMaxLifetime time.Duration) (*sql.DB, error) {
	db, err := sql.Open(driver, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConnections)
	db.SetMaxIdleConns(maxIdleConnections)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
