package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/awlens/awlens/internal/errs"
	"github.com/awlens/awlens/internal/models"
)

// Store is a read-only accessor over the event database written by the
// tracking service. It never mutates the store.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens the event database at path in read-only mode. A missing file
// means the tracking service has never run on this machine.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errs.StoreUnavailable(fmt.Sprintf("event store not found at %s (has the tracker ever run?)", path), err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errs.StoreUnavailable("failed to open event store", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errs.StoreUnavailable("failed to reach event store", err)
	}

	logger.Debug("Event store opened", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close event store: %w", err)
	}
	return nil
}

// ListBuckets returns every bucket in the store, ordered by id.
func (s *Store) ListBuckets() ([]models.Bucket, error) {
	rows, err := s.db.Query(`
		SELECT id, type, hostname, created
		FROM buckets
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query buckets: %w", err)
	}
	defer rows.Close()

	var buckets []models.Bucket
	for rows.Next() {
		var b models.Bucket
		var created int64
		if err := rows.Scan(&b.ID, &b.Type, &b.Hostname, &created); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		b.Created = time.UnixMilli(created).UTC()
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buckets: %w", err)
	}

	return buckets, nil
}

// GetBucket returns one bucket by id.
func (s *Store) GetBucket(bucketID string) (*models.Bucket, error) {
	var b models.Bucket
	var created int64
	err := s.db.QueryRow(`
		SELECT id, type, hostname, created
		FROM buckets
		WHERE id = ?
	`, bucketID).Scan(&b.ID, &b.Type, &b.Hostname, &created)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("bucket %q not found", bucketID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}
	b.Created = time.UnixMilli(created).UTC()
	return &b, nil
}

// GetEvents returns events for a bucket, ordered by timestamp. Time bounds
// are overlap-inclusive: an event starting before start but ending after it
// is included. Zero start/end mean unbounded; limit <= 0 means no limit.
func (s *Store) GetEvents(bucketID string, start, end time.Time, limit int) ([]models.Event, error) {
	if _, err := s.GetBucket(bucketID); err != nil {
		return nil, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, errs.Validation("end %s is before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	query := `
		SELECT id, bucket_id, timestamp, duration, data
		FROM events
		WHERE bucket_id = ?
	`
	args := []interface{}{bucketID}

	if !start.IsZero() {
		query += ` AND timestamp + duration >= ?`
		args = append(args, start.UnixMilli())
	}
	if !end.IsZero() {
		query += ` AND timestamp <= ?`
		args = append(args, end.UnixMilli())
	}
	query += ` ORDER BY timestamp ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := s.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// GetBucketInfo summarizes a bucket: event count, first/last event time and
// a few sample events.
func (s *Store) GetBucketInfo(bucketID string, sampleLimit int) (*models.BucketInfo, error) {
	bucket, err := s.GetBucket(bucketID)
	if err != nil {
		return nil, err
	}

	info := &models.BucketInfo{Bucket: *bucket}

	var first, last sql.NullInt64
	err = s.db.QueryRow(`
		SELECT COUNT(*), MIN(timestamp), MAX(timestamp + duration)
		FROM events
		WHERE bucket_id = ?
	`, bucketID).Scan(&info.EventCount, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize bucket: %w", err)
	}
	if first.Valid {
		t := time.UnixMilli(first.Int64).UTC()
		info.FirstEventTime = &t
	}
	if last.Valid {
		t := time.UnixMilli(last.Int64).UTC()
		info.LastEventTime = &t
	}

	if sampleLimit > 0 {
		rows, err := s.db.Query(`
			SELECT id, bucket_id, timestamp, duration, data
			FROM events
			WHERE bucket_id = ?
			ORDER BY timestamp DESC
			LIMIT ?
		`, bucketID, sampleLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to query sample events: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			event, err := s.scanEvent(rows)
			if err != nil {
				return nil, err
			}
			info.SampleEvents = append(info.SampleEvents, event)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating sample events: %w", err)
		}
	}

	return info, nil
}

func (s *Store) scanEvent(rows *sql.Rows) (models.Event, error) {
	var event models.Event
	var ts, dur int64
	var data string

	if err := rows.Scan(&event.ID, &event.BucketID, &ts, &dur, &data); err != nil {
		return event, fmt.Errorf("failed to scan event: %w", err)
	}
	event.Timestamp = time.UnixMilli(ts).UTC()
	event.Duration = time.Duration(dur) * time.Millisecond

	if data != "" {
		if err := json.Unmarshal([]byte(data), &event.Data); err != nil {
			// A single bad payload should not sink a whole report.
			s.logger.Warn("Skipping unparseable event data",
				zap.Int64("event_id", event.ID),
				zap.Error(err),
			)
		}
	}

	return event, nil
}
