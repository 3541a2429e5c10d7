package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awlens/awlens/internal/models"
)

func sampleEvents() []models.Event {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	return []models.Event{
		{
			BucketID:  "aw-watcher-window_host1",
			Timestamp: base,
			Duration:  90500 * time.Millisecond,
			Data:      models.EventData{App: "Code", Title: "main.go"},
		},
		{
			BucketID:  "aw-watcher-afk_host1",
			Timestamp: base.Add(2 * time.Minute),
			Duration:  10 * time.Minute,
			Data:      models.EventData{Status: models.StatusNotAFK},
		},
		{
			BucketID:  "aw-watcher-web_host1",
			Timestamp: base.Add(5 * time.Minute),
			Duration:  30 * time.Second,
			Data:      models.EventData{URL: "https://example.com", Title: "Example", TabCount: 7},
		},
	}
}

// Export then reimport reconstructs the same events: same count, same
// timestamps, same durations.
func TestJSONRoundTrip(t *testing.T) {
	events := sampleEvents()
	path := filepath.Join(t.TempDir(), "events.json")

	require.NoError(t, EventsToJSON(events, path))

	back, err := EventsFromJSON(path)
	require.NoError(t, err)
	require.Len(t, back, len(events))

	for i, e := range events {
		assert.Equal(t, e.BucketID, back[i].BucketID)
		assert.True(t, e.Timestamp.Equal(back[i].Timestamp), "timestamp %d", i)
		assert.Equal(t, e.Duration, back[i].Duration, "duration %d", i)
		assert.Equal(t, e.Data, back[i].Data)
	}
}

func TestJSONExportShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, EventsToJSON(sampleEvents(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out jsonExport
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 3, out.Count)
	require.Len(t, out.Events, 3)
	assert.InDelta(t, 90.5, out.Events[0].DurationSeconds, 1e-9)

	_, err = time.Parse(time.RFC3339, out.ExportedAt)
	assert.NoError(t, err)
}

func TestJSONExportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, EventsToJSON(nil, path))

	back, err := EventsFromJSON(path)
	require.NoError(t, err)
	assert.Empty(t, back)
}

func TestJSONFromFileErrors(t *testing.T) {
	_, err := EventsFromJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = EventsFromJSON(bad)
	assert.Error(t, err)
}

func TestCSVExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, EventsToCSV(sampleEvents(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "bucket_id", records[0][0])
	assert.Equal(t, "aw-watcher-window_host1", records[1][0])
	assert.Equal(t, "90.5", records[1][2])
	assert.Equal(t, "Code", records[1][3])
	assert.Equal(t, "not-afk", records[2][5])
}

func TestCSVExportBadPath(t *testing.T) {
	err := EventsToCSV(nil, filepath.Join(t.TempDir(), "no", "such", "dir.csv"))
	assert.Error(t, err)
}
