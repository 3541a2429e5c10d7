package analyze

import (
	"time"

	"github.com/awlens/awlens/internal/models"
	"github.com/awlens/awlens/internal/userconfig"
)

// ProjectTime is the attribution result for one project over a range.
// RuleBased and Manual are summed independently: a manual tag overlapping a
// rule-matched interval counts twice in Total. That double count is a
// deliberate, documented tradeoff, not a reconciliation bug.
type ProjectTime struct {
	Project   string
	Start     time.Time
	End       time.Time
	RuleBased time.Duration
	Manual    time.Duration
	Total     time.Duration
}

// MatchProject sums the active duration of intervals matched by the
// project's rules.
func MatchProject(intervals []models.NormalizedInterval, rules userconfig.CompiledRuleSet) time.Duration {
	var total time.Duration
	for _, iv := range intervals {
		if !iv.Active {
			continue
		}
		if rules.Matches(iv.App, iv.Title) {
			total += iv.ActiveDur
		}
	}
	return total
}

// GetProjectTime combines rule-based matching with manual tags for one
// project over [start, end]. Manual tag spans are clipped to the range.
func GetProjectTime(
	project userconfig.Project,
	intervals []models.NormalizedInterval,
	tags []userconfig.ManualTag,
	start, end time.Time,
) ProjectTime {
	pt := ProjectTime{
		Project:   project.Name,
		Start:     start,
		End:       end,
		RuleBased: MatchProject(intervals, project.Rules.MustCompile()),
	}

	for _, tag := range tags {
		s, e := tag.Start, tag.End
		if s.Before(start) {
			s = start
		}
		if e.After(end) {
			e = end
		}
		if e.After(s) {
			pt.Manual += e.Sub(s)
		}
	}

	pt.Total = pt.RuleBased + pt.Manual
	return pt
}
