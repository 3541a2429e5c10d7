package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/awlens/awlens/internal/models"
)

// EventsToCSV writes events to a CSV export file, one row per event.
func EventsToCSV(events []models.Event, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"bucket_id", "timestamp", "duration_seconds", "app", "title", "status", "url", "language", "file", "project"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, e := range events {
		row := []string{
			e.BucketID,
			e.Timestamp.UTC().Format(time.RFC3339Nano),
			strconv.FormatFloat(e.Duration.Seconds(), 'f', -1, 64),
			e.Data.App,
			e.Data.Title,
			e.Data.Status,
			e.Data.URL,
			e.Data.Language,
			e.Data.File,
			e.Data.Project,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
