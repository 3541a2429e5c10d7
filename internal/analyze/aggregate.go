package analyze

import (
	"sort"
	"time"

	"github.com/awlens/awlens/internal/models"
)

// GroupBy selects the aggregation key.
type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByApp   GroupBy = "app"
	GroupByTitle GroupBy = "title"
)

// GroupTotal is one aggregation bucket.
type GroupTotal struct {
	Key      string
	Duration time.Duration
}

// Aggregation maps group keys to total active duration. Totals preserves
// first-seen order, which is also the top-N tie-break.
type Aggregation struct {
	GroupBy GroupBy
	Totals  []GroupTotal
	Total   time.Duration
}

// Aggregate groups active interval time by day, app, or title. A day
// grouping splits intervals at local midnight and apportions active time
// proportionally to the clock time spent in each day, so per-day totals
// always sum to the full-range total.
func Aggregate(intervals []models.NormalizedInterval, groupBy GroupBy, loc *time.Location) Aggregation {
	agg := Aggregation{GroupBy: groupBy}
	index := make(map[string]int)

	add := func(key string, d time.Duration) {
		if d <= 0 {
			return
		}
		if i, ok := index[key]; ok {
			agg.Totals[i].Duration += d
		} else {
			index[key] = len(agg.Totals)
			agg.Totals = append(agg.Totals, GroupTotal{Key: key, Duration: d})
		}
		agg.Total += d
	}

	for _, iv := range intervals {
		if !iv.Active || iv.ActiveDur == 0 {
			continue
		}
		switch groupBy {
		case GroupByApp:
			add(keyOrUnknown(iv.App), iv.ActiveDur)
		case GroupByTitle:
			add(keyOrUnknown(iv.Title), iv.ActiveDur)
		case GroupByDay:
			for day, share := range splitByDay(iv, loc) {
				add(day, share)
			}
		}
	}

	return agg
}

// TopN returns the n largest groups: higher duration first, equal
// durations ordered by first-seen.
func (a Aggregation) TopN(n int) []GroupTotal {
	top := make([]GroupTotal, len(a.Totals))
	copy(top, a.Totals)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Duration > top[j].Duration })
	if n > 0 && len(top) > n {
		top = top[:n]
	}
	return top
}

func keyOrUnknown(key string) string {
	if key == "" {
		return "unknown"
	}
	return key
}

// splitByDay apportions an interval's active duration across the local
// calendar days it spans, proportional to clock time per day.
func splitByDay(iv models.NormalizedInterval, loc *time.Location) map[string]time.Duration {
	shares := make(map[string]time.Duration)
	total := iv.Duration()
	if total <= 0 {
		return shares
	}

	cursor := iv.Start.In(loc)
	end := iv.End.In(loc)
	remaining := iv.ActiveDur

	for cursor.Before(end) {
		midnight := time.Date(cursor.Year(), cursor.Month(), cursor.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		segEnd := end
		last := true
		if midnight.Before(end) {
			segEnd = midnight
			last = false
		}

		var share time.Duration
		if last {
			// Give the final segment the exact remainder so rounding can
			// never lose or double-count time across the boundary.
			share = remaining
		} else {
			seg := segEnd.Sub(cursor)
			// Ratio first: a direct ns*ns product overflows int64 for
				// intervals longer than a few seconds.
				share = time.Duration(float64(iv.ActiveDur) * (float64(seg) / float64(total)))
			remaining -= share
		}
		if share > 0 {
			day := cursor.Format("2006-01-02")
			shares[day] += share
		}
		cursor = segEnd
	}

	return shares
}
