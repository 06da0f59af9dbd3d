// Package storage is the customer-service backing store: customers and
// tickets on SQLite (default) or Postgres, accessed through bun.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

var ErrNotFound = errors.New("record not found")

type SQLiteConfig struct {
	Path        string        `envconfig:"PATH" split_words:"true" default:"customer_service.db"`
	BusyTimeout time.Duration `envconfig:"BUSY_TIMEOUT" split_words:"true" default:"5s"`
}

type PostgresConfig struct {
	DSN string `envconfig:"DSN" split_words:"true"`
}

// Store wraps a bun.DB. The same query surface works against both dialects.
type Store struct {
	db *bun.DB
}

// NewSQLite opens (or creates) the SQLite database. WAL and foreign keys are
// enabled; an in-memory path is pinned to a single connection so every
// query sees the same database.
func NewSQLite(cfg SQLiteConfig) (*Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		sqldb.SetMaxOpenConns(1)
	}

	if _, err := sqldb.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := sqldb.Exec("PRAGMA foreign_keys=ON"); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if cfg.BusyTimeout > 0 {
		if _, err := sqldb.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", cfg.BusyTimeout.Milliseconds())); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("set busy timeout: %w", err)
		}
	}

	return &Store{db: bun.NewDB(sqldb, sqlitedialect.New())}, nil
}

// NewPostgres connects to Postgres for deployments that outgrow the SQLite
// file. Schema management is external for this dialect.
func NewPostgres(cfg PostgresConfig) (*Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &Store{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
