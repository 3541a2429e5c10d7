package export

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/awlens/awlens/internal/models"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Events     []jsonEvent `json:"events"`
}

type jsonEvent struct {
	BucketID        string           `json:"bucket_id"`
	Timestamp       string           `json:"timestamp"`
	DurationSeconds float64          `json:"duration_seconds"`
	Data            models.EventData `json:"data"`
}

// EventsToJSON writes events to a JSON export file.
func EventsToJSON(events []models.Event, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(events),
	}

	for _, e := range events {
		out.Events = append(out.Events, jsonEvent{
			BucketID:        e.BucketID,
			Timestamp:       e.Timestamp.UTC().Format(time.RFC3339Nano),
			DurationSeconds: e.Duration.Seconds(),
			Data:            e.Data,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// EventsFromJSON parses a JSON export back into events. Durations are
// stored at millisecond precision, so they round-trip exactly.
func EventsFromJSON(path string) ([]models.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}

	var in jsonExport
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse json export: %w", err)
	}

	var events []models.Event
	for _, je := range in.Events {
		ts, err := time.Parse(time.RFC3339Nano, je.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", je.Timestamp, err)
		}
		events = append(events, models.Event{
			BucketID:  je.BucketID,
			Timestamp: ts.UTC(),
			Duration:  time.Duration(math.Round(je.DurationSeconds*1000)) * time.Millisecond,
			Data:      je.Data,
		})
	}
	return events, nil
}
