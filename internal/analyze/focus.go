package analyze

import (
	"time"

	"github.com/awlens/awlens/internal/models"
)

// Session is a maximal run of same-app active intervals whose accumulated
// active time meets the minimum.
type Session struct {
	Start    time.Time
	End      time.Time
	App      string
	Duration time.Duration
}

// DetectSessions scans chronological intervals for focus sessions: runs of
// consecutive active intervals in the same app, tolerating gaps (including
// brief visits to other apps) up to gapTolerance. Inactive intervals always
// terminate a run. Runs shorter than minDuration are discarded.
func DetectSessions(intervals []models.NormalizedInterval, minDuration, gapTolerance time.Duration) []Session {
	var sessions []Session

	var run *Session
	close := func() {
		if run != nil && run.Duration >= minDuration {
			sessions = append(sessions, *run)
		}
		run = nil
	}

	start := func(iv models.NormalizedInterval) {
		run = &Session{Start: iv.Start, End: iv.End, App: iv.App, Duration: iv.ActiveDur}
	}

	for _, iv := range intervals {
		if !iv.Active {
			close()
			continue
		}

		switch {
		case run == nil:
			start(iv)
		case iv.App == run.App:
			if iv.Start.Sub(run.End) > gapTolerance {
				close()
				start(iv)
			} else {
				run.End = iv.End
				run.Duration += iv.ActiveDur
			}
		default:
			// A brief excursion into another app stays within tolerance and
			// does not break focus; a longer one ends the run and may begin
			// a session of its own.
			if iv.End.Sub(run.End) > gapTolerance {
				close()
				start(iv)
			}
		}
	}
	close()

	return sessions
}
