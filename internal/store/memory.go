package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/awlens/awlens/internal/models"
)

// OpenMemory creates an in-memory event store with the tracker's schema.
// It exists for tests: the real store is always opened read-only via Open.
func OpenMemory(logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory store: %w", err)
	}
	db.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS buckets (
			id       TEXT PRIMARY KEY,
			type     TEXT NOT NULL,
			hostname TEXT NOT NULL,
			created  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			bucket_id TEXT NOT NULL REFERENCES buckets(id),
			timestamp INTEGER NOT NULL,
			duration  INTEGER NOT NULL DEFAULT 0,
			data      TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_bucket_ts ON events(bucket_id, timestamp)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &Store{db: db, logger: logger}, nil
}

// Seed inserts a bucket and its events into a store created by OpenMemory.
// Test fixture support only.
func (s *Store) Seed(bucket models.Bucket, events []models.Event) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO buckets (id, type, hostname, created)
		VALUES (?, ?, ?, ?)
	`, bucket.ID, bucket.Type, bucket.Hostname, bucket.Created.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to seed bucket: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO events (bucket_id, timestamp, duration, data)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, event := range events {
		data, err := json.Marshal(event.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal event data: %w", err)
		}
		if _, err := stmt.Exec(bucket.ID, event.Timestamp.UnixMilli(), event.Duration.Milliseconds(), string(data)); err != nil {
			return fmt.Errorf("failed to seed event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("Seeded bucket",
		zap.String("bucket_id", bucket.ID),
		zap.Int("events", len(events)),
	)
	return nil
}
