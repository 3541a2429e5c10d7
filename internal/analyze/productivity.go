package analyze

import (
	"time"

	"github.com/awlens/awlens/internal/models"
	"github.com/awlens/awlens/internal/userconfig"
)

// Classifier maps interval context to a productivity category. Categories
// are evaluated in fixed order: productive, then distracting; anything
// unmatched is neutral.
type Classifier struct {
	productive  userconfig.CompiledRuleSet
	distracting userconfig.CompiledRuleSet
}

// NewClassifier compiles the configured category rule tables.
func NewClassifier(rules userconfig.CategoryRules) *Classifier {
	return &Classifier{
		productive:  rules.Productive.MustCompile(),
		distracting: rules.Distracting.MustCompile(),
	}
}

// Classify returns the category for one interval's context.
func (c *Classifier) Classify(iv models.NormalizedInterval) string {
	if c.productive.Matches(iv.App, iv.Title) {
		return userconfig.CategoryProductive
	}
	if c.distracting.Matches(iv.App, iv.Title) {
		return userconfig.CategoryDistracting
	}
	return userconfig.CategoryNeutral
}

// AppProductivity is one app's time split across categories.
type AppProductivity struct {
	App         string
	Productive  time.Duration
	Neutral     time.Duration
	Distracting time.Duration
}

// ProductivityBreakdown is the classifier's report over a range.
type ProductivityBreakdown struct {
	Productive  time.Duration
	Neutral     time.Duration
	Distracting time.Duration
	ByApp       []AppProductivity
}

// Total returns the summed active time across all categories.
func (b ProductivityBreakdown) Total() time.Duration {
	return b.Productive + b.Neutral + b.Distracting
}

// Breakdown classifies every active interval and aggregates per category
// and per app. Apps are listed in first-seen order.
func (c *Classifier) Breakdown(intervals []models.NormalizedInterval) ProductivityBreakdown {
	var breakdown ProductivityBreakdown
	index := make(map[string]int)

	for _, iv := range intervals {
		if !iv.Active || iv.ActiveDur == 0 {
			continue
		}

		app := keyOrUnknown(iv.App)
		i, ok := index[app]
		if !ok {
			i = len(breakdown.ByApp)
			index[app] = i
			breakdown.ByApp = append(breakdown.ByApp, AppProductivity{App: app})
		}

		switch c.Classify(iv) {
		case userconfig.CategoryProductive:
			breakdown.Productive += iv.ActiveDur
			breakdown.ByApp[i].Productive += iv.ActiveDur
		case userconfig.CategoryDistracting:
			breakdown.Distracting += iv.ActiveDur
			breakdown.ByApp[i].Distracting += iv.ActiveDur
		default:
			breakdown.Neutral += iv.ActiveDur
			breakdown.ByApp[i].Neutral += iv.ActiveDur
		}
	}

	return breakdown
}
