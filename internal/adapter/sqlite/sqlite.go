// Package sqlite opens the tracker's repositories on an embedded SQLite file.
package sqlite

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"diabetracker/internal/adapter/store"

	"gorm.io/driver/sqlite"
)

// Open creates the database file and its directory if needed, then migrates
// the schema. Use ":memory:" for a throwaway database.
func Open(path string, log *slog.Logger) (*store.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
	}
	db, err := store.Open(sqlite.Open(dsn(path)), log)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}
