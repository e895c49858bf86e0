// Package postgres opens the tracker's repositories on a PostgreSQL server.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"diabetracker/internal/adapter/store"

	_ "github.com/lib/pq"
	gormpg "gorm.io/driver/postgres"
)

// Open connects to PostgreSQL, pings, and migrates the schema.
func Open(connStr string, log *slog.Logger) (*store.DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db, err := store.Open(gormpg.New(gormpg.Config{Conn: s}), log)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return db, nil
}
