package analyze

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/awlens/awlens/internal/models"
)

// span is a half-open [start, end) slice of time.
type span struct {
	start, end time.Time
}

func (s span) dur() time.Duration {
	return s.end.Sub(s.start)
}

// Normalized is the normalizer output: ordered, non-overlapping intervals
// plus a flag telling whether AFK data existed for the range. When it did
// not, all time is treated as active, which is a documented heuristic and
// not the same as measured activity.
type Normalized struct {
	Intervals []models.NormalizedInterval
	AFKData   bool
}

// ActiveTotal returns the summed active duration across intervals.
func (n Normalized) ActiveTotal() time.Duration {
	var total time.Duration
	for _, iv := range n.Intervals {
		total += iv.ActiveDur
	}
	return total
}

// Normalizer merges fragmented events into contiguous intervals and
// resolves per-interval active time against the AFK stream.
type Normalizer struct {
	mergeGap time.Duration
	logger   *zap.Logger
}

// NewNormalizer creates a normalizer. mergeGap is the largest gap between
// consecutive same-context events still treated as one continuous interval
// (polling granularity smoothing).
func NewNormalizer(mergeGap time.Duration, logger *zap.Logger) *Normalizer {
	return &Normalizer{mergeGap: mergeGap, logger: logger}
}

// mergedInterval tracks an interval under construction together with the
// sub-spans actually covered by events. Bridged poll gaps widen the
// interval but are never counted as covered time, so normalization cannot
// invent duration.
type mergedInterval struct {
	span
	app, title string
	covered    []span
}

// Normalize turns raw context events plus the host's AFK events into
// normalized intervals. afkEvents may be nil when the host has no AFK
// bucket; the result's AFKData flag is false in that case.
func (n *Normalizer) Normalize(events, afkEvents []models.Event) Normalized {
	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var merged []*mergedInterval
	for _, event := range sorted {
		if event.Duration < 0 {
			continue
		}
		ev := span{start: event.Timestamp, end: event.End()}

		last := lastInterval(merged)
		if last != nil && last.app == event.Data.App && last.title == event.Data.Title &&
			!ev.start.After(last.end.Add(n.mergeGap)) {
			if ev.end.After(last.end) {
				last.end = ev.end
			}
			last.covered = addCovered(last.covered, ev)
			continue
		}

		merged = append(merged, &mergedInterval{
			span:    ev,
			app:     event.Data.App,
			title:   event.Data.Title,
			covered: []span{ev},
		})
	}

	// Cross-bucket sources may overlap; keep the output non-overlapping by
	// clipping each interval to start no earlier than its predecessor ends.
	for i := 1; i < len(merged); i++ {
		prev, cur := merged[i-1], merged[i]
		if cur.start.Before(prev.end) {
			cur.start = prev.end
			cur.covered = clipCovered(cur.covered, cur.start)
		}
	}

	notAFK, hasAFK := notAFKSpans(afkEvents)
	if !hasAFK {
		n.logger.Warn("No AFK data for range, treating all time as active")
	}

	result := Normalized{AFKData: hasAFK}
	for _, m := range merged {
		if !m.end.After(m.start) {
			continue
		}
		var active time.Duration
		if hasAFK {
			active = overlapTotal(m.covered, notAFK)
		} else {
			for _, c := range m.covered {
				active += c.dur()
			}
		}
		result.Intervals = append(result.Intervals, models.NormalizedInterval{
			Start:     m.start,
			End:       m.end,
			App:       m.app,
			Title:     m.title,
			Active:    active > 0,
			ActiveDur: active,
		})
	}

	n.logger.Debug("Normalized events",
		zap.Int("raw_events", len(events)),
		zap.Int("intervals", len(result.Intervals)),
		zap.Bool("afk_data", hasAFK),
		zap.Duration("active_total", result.ActiveTotal()),
	)
	return result
}

// ClipEvents trims events to the [start, end) window and drops events
// entirely outside it. Store reads are overlap-inclusive, so an event
// straddling a range boundary comes back whole; the portion outside the
// range must not count toward it. A zero start or end leaves that side
// unbounded.
func ClipEvents(events []models.Event, start, end time.Time) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, event := range events {
		evEnd := event.End()
		if !start.IsZero() && event.Timestamp.Before(start) {
			if !evEnd.After(start) {
				continue
			}
			event.Timestamp = start
			event.Duration = evEnd.Sub(start)
		}
		if !end.IsZero() && evEnd.After(end) {
			if !event.Timestamp.Before(end) {
				continue
			}
			event.Duration = end.Sub(event.Timestamp)
		}
		out = append(out, event)
	}
	return out
}

func lastInterval(merged []*mergedInterval) *mergedInterval {
	if len(merged) == 0 {
		return nil
	}
	return merged[len(merged)-1]
}

// addCovered appends a span to an ordered covered list, merging with the
// tail when they touch or overlap.
func addCovered(covered []span, s span) []span {
	if len(covered) > 0 {
		last := &covered[len(covered)-1]
		if !s.start.After(last.end) {
			if s.end.After(last.end) {
				last.end = s.end
			}
			return covered
		}
	}
	return append(covered, s)
}

// clipCovered drops covered time before cutoff.
func clipCovered(covered []span, cutoff time.Time) []span {
	var out []span
	for _, c := range covered {
		if !c.end.After(cutoff) {
			continue
		}
		if c.start.Before(cutoff) {
			c.start = cutoff
		}
		out = append(out, c)
	}
	return out
}

// notAFKSpans extracts the merged "not-afk" spans from an AFK event stream.
// The second return is false when no AFK events exist at all.
func notAFKSpans(afkEvents []models.Event) ([]span, bool) {
	if len(afkEvents) == 0 {
		return nil, false
	}

	var spans []span
	for _, event := range afkEvents {
		if event.Data.Status != models.StatusNotAFK || event.Duration <= 0 {
			continue
		}
		spans = append(spans, span{start: event.Timestamp, end: event.End()})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })

	var mergedSpans []span
	for _, s := range spans {
		mergedSpans = addCovered(mergedSpans, s)
	}
	return mergedSpans, true
}

// overlapTotal sums the intersection of two ordered disjoint span lists.
func overlapTotal(a, b []span) time.Duration {
	var total time.Duration
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := a[i].start
		if b[j].start.After(start) {
			start = b[j].start
		}
		end := a[i].end
		if b[j].end.Before(end) {
			end = b[j].end
		}
		if end.After(start) {
			total += end.Sub(start)
		}
		if a[i].end.Before(b[j].end) {
			i++
		} else {
			j++
		}
	}
	return total
}
