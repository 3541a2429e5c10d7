package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/awlens/awlens/internal/errs"
	"github.com/awlens/awlens/internal/models"
)

var base = time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory(zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	window := models.Bucket{
		ID:       "aw-watcher-window_host1",
		Type:     models.BucketTypeWindow,
		Hostname: "host1",
		Created:  base.AddDate(0, -1, 0),
	}
	events := []models.Event{
		{Timestamp: base, Duration: 10 * time.Minute, Data: models.EventData{App: "Code", Title: "main.go"}},
		{Timestamp: base.Add(10 * time.Minute), Duration: 5 * time.Minute, Data: models.EventData{App: "Firefox", Title: "docs"}},
		{Timestamp: base.Add(15 * time.Minute), Duration: 20 * time.Minute, Data: models.EventData{App: "Code", Title: "api.go"}},
	}
	require.NoError(t, s.Seed(window, events))

	afk := models.Bucket{
		ID:       "aw-watcher-afk_host1",
		Type:     models.BucketTypeAFK,
		Hostname: "host1",
		Created:  base.AddDate(0, -1, 0),
	}
	require.NoError(t, s.Seed(afk, []models.Event{
		{Timestamp: base, Duration: 35 * time.Minute, Data: models.EventData{Status: models.StatusNotAFK}},
	}))

	return s
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.db"), zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, errs.KindStoreUnavailable, errs.KindOf(err))
}

func TestListBuckets(t *testing.T) {
	s := newSeededStore(t)

	buckets, err := s.ListBuckets()
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "aw-watcher-afk_host1", buckets[0].ID)
	assert.Equal(t, models.BucketTypeAFK, buckets[0].Type)
	assert.Equal(t, "host1", buckets[0].Hostname)
}

func TestGetBucketNotFound(t *testing.T) {
	s := newSeededStore(t)

	_, err := s.GetBucket("missing")
	assert.True(t, errs.IsNotFound(err))

	_, err = s.GetEvents("missing", time.Time{}, time.Time{}, 0)
	assert.True(t, errs.IsNotFound(err))
}

func TestGetEventsOrderedWithData(t *testing.T) {
	s := newSeededStore(t)

	events, err := s.GetEvents("aw-watcher-window_host1", time.Time{}, time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Code", events[0].Data.App)
	assert.Equal(t, base, events[0].Timestamp)
	assert.Equal(t, 10*time.Minute, events[0].Duration)
	assert.True(t, events[0].Timestamp.Before(events[1].Timestamp))
}

// An event starting before the range but overlapping it is included.
func TestGetEventsOverlapInclusiveBounds(t *testing.T) {
	s := newSeededStore(t)

	start := base.Add(5 * time.Minute)
	events, err := s.GetEvents("aw-watcher-window_host1", start, base.Add(12*time.Minute), 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Code", events[0].Data.App)
	assert.Equal(t, "Firefox", events[1].Data.App)
}

func TestGetEventsLimit(t *testing.T) {
	s := newSeededStore(t)

	events, err := s.GetEvents("aw-watcher-window_host1", time.Time{}, time.Time{}, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestGetEventsInvalidRange(t *testing.T) {
	s := newSeededStore(t)

	_, err := s.GetEvents("aw-watcher-window_host1", base, base.Add(-time.Hour), 0)
	assert.True(t, errs.IsValidation(err))
}

func TestGetBucketInfo(t *testing.T) {
	s := newSeededStore(t)

	info, err := s.GetBucketInfo("aw-watcher-window_host1", 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, info.EventCount)
	require.NotNil(t, info.FirstEventTime)
	assert.Equal(t, base, *info.FirstEventTime)
	require.NotNil(t, info.LastEventTime)
	assert.Equal(t, base.Add(35*time.Minute), *info.LastEventTime)
	assert.Len(t, info.SampleEvents, 2)
}

func TestRawQuery(t *testing.T) {
	s := newSeededStore(t)

	result, err := s.RawQuery("SELECT bucket_id, COUNT(*) AS n FROM events GROUP BY bucket_id ORDER BY bucket_id")
	require.NoError(t, err)
	assert.Equal(t, []string{"bucket_id", "n"}, result.Columns)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "aw-watcher-afk_host1", result.Rows[0][0])
	assert.Equal(t, "1", result.Rows[0][1])
}

func TestRawQueryRejectsWrites(t *testing.T) {
	s := newSeededStore(t)

	for _, q := range []string{
		"DELETE FROM events",
		"INSERT INTO events (bucket_id, timestamp) VALUES ('x', 0)",
		"SELECT 1; DELETE FROM events",
		"",
	} {
		_, err := s.RawQuery(q)
		assert.True(t, errs.IsValidation(err), "query %q should be rejected", q)
	}
}

func TestRawQueryAllowsCTE(t *testing.T) {
	s := newSeededStore(t)

	result, err := s.RawQuery("WITH c AS (SELECT COUNT(*) AS n FROM events) SELECT n FROM c")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "4", result.Rows[0][0])
}
