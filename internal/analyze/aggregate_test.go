package analyze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awlens/awlens/internal/models"
)

func interval(app, title string, start time.Time, dur time.Duration) models.NormalizedInterval {
	return models.NormalizedInterval{
		Start:     start,
		End:       start.Add(dur),
		App:       app,
		Title:     title,
		Active:    true,
		ActiveDur: dur,
	}
}

func TestAggregateByApp(t *testing.T) {
	intervals := []models.NormalizedInterval{
		interval("Code", "a", base, time.Hour),
		interval("Firefox", "b", base.Add(time.Hour), 30*time.Minute),
		interval("Code", "c", base.Add(2*time.Hour), 30*time.Minute),
	}

	agg := Aggregate(intervals, GroupByApp, time.UTC)
	assert.Equal(t, 2*time.Hour, agg.Total)
	require.Len(t, agg.Totals, 2)
	assert.Equal(t, "Code", agg.Totals[0].Key)
	assert.Equal(t, 90*time.Minute, agg.Totals[0].Duration)
	assert.Equal(t, "Firefox", agg.Totals[1].Key)
}

func TestAggregateSkipsInactive(t *testing.T) {
	iv := interval("Code", "a", base, time.Hour)
	iv.Active = false
	iv.ActiveDur = 0

	agg := Aggregate([]models.NormalizedInterval{iv}, GroupByApp, time.UTC)
	assert.Zero(t, agg.Total)
	assert.Empty(t, agg.Totals)
}

// An interval straddling midnight is split across both days with no time
// lost or double-counted.
func TestAggregateByDaySplitsAtMidnight(t *testing.T) {
	start := time.Date(2026, 8, 24, 23, 0, 0, 0, time.UTC)
	intervals := []models.NormalizedInterval{
		interval("Code", "a", start, 2*time.Hour), // 23:00 to 01:00
	}

	agg := Aggregate(intervals, GroupByDay, time.UTC)
	require.Len(t, agg.Totals, 2)
	assert.Equal(t, "2026-08-24", agg.Totals[0].Key)
	assert.Equal(t, time.Hour, agg.Totals[0].Duration)
	assert.Equal(t, "2026-08-25", agg.Totals[1].Key)
	assert.Equal(t, time.Hour, agg.Totals[1].Duration)

	// Per-day totals always sum to the full-range total.
	var sum time.Duration
	for _, g := range agg.Totals {
		sum += g.Duration
	}
	assert.Equal(t, 2*time.Hour, sum)
	assert.Equal(t, agg.Total, sum)
}

// Partially AFK intervals apportion active time proportionally to clock
// time per day, and the remainder trick keeps the sum exact.
func TestAggregateByDayProportionalShare(t *testing.T) {
	start := time.Date(2026, 8, 24, 23, 30, 0, 0, time.UTC)
	iv := interval("Code", "a", start, time.Hour) // 23:30 to 00:30
	iv.ActiveDur = 45 * time.Minute

	agg := Aggregate([]models.NormalizedInterval{iv}, GroupByDay, time.UTC)
	require.Len(t, agg.Totals, 2)
	var sum time.Duration
	for _, g := range agg.Totals {
		sum += g.Duration
	}
	assert.Equal(t, 45*time.Minute, sum)
}

// Multi-day intervals split exactly; the share arithmetic must hold up
// for durations far beyond a few seconds.
func TestAggregateByDayLongInterval(t *testing.T) {
	start := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	intervals := []models.NormalizedInterval{
		interval("Code", "a", start, 48*time.Hour), // noon to noon, two midnights
	}

	agg := Aggregate(intervals, GroupByDay, time.UTC)
	require.Len(t, agg.Totals, 3)
	assert.Equal(t, 12*time.Hour, agg.Totals[0].Duration)
	assert.Equal(t, 24*time.Hour, agg.Totals[1].Duration)
	assert.Equal(t, 12*time.Hour, agg.Totals[2].Duration)

	var sum time.Duration
	for _, g := range agg.Totals {
		sum += g.Duration
	}
	assert.Equal(t, 48*time.Hour, sum)
	assert.Equal(t, agg.Total, sum)
}

func TestTopNTieBreakFirstSeen(t *testing.T) {
	intervals := []models.NormalizedInterval{
		interval("Beta", "a", base, time.Hour),
		interval("Alpha", "b", base.Add(time.Hour), time.Hour),
		interval("Gamma", "c", base.Add(2*time.Hour), 2*time.Hour),
	}

	agg := Aggregate(intervals, GroupByApp, time.UTC)
	top := agg.TopN(2)
	require.Len(t, top, 2)
	assert.Equal(t, "Gamma", top[0].Key)
	// Beta and Alpha tie at 1h; first-seen wins.
	assert.Equal(t, "Beta", top[1].Key)
}

func TestAggregateUnknownApp(t *testing.T) {
	intervals := []models.NormalizedInterval{
		interval("", "", base, time.Minute),
	}
	agg := Aggregate(intervals, GroupByApp, time.UTC)
	require.Len(t, agg.Totals, 1)
	assert.Equal(t, "unknown", agg.Totals[0].Key)
}
