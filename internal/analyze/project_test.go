package analyze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/awlens/awlens/internal/models"
	"github.com/awlens/awlens/internal/userconfig"
)

func TestMatchProjectCaseInsensitiveAppSubstring(t *testing.T) {
	rules := userconfig.RuleSet{AppPatterns: []string{"code"}}.MustCompile()

	intervals := []models.NormalizedInterval{
		interval("Visual Studio Code", "main.go", base, time.Hour),
		interval("Terminal", "zsh", base.Add(time.Hour), time.Hour),
	}

	assert.Equal(t, time.Hour, MatchProject(intervals, rules))
}

func TestMatchProjectTitleAndRegexRules(t *testing.T) {
	intervals := []models.NormalizedInterval{
		interval("Firefox", "awlens — Pull Request #12", base, 30*time.Minute),
		interval("Firefox", "news", base.Add(time.Hour), 30*time.Minute),
	}

	byTitle := userconfig.RuleSet{TitlePatterns: []string{"awlens"}}.MustCompile()
	assert.Equal(t, 30*time.Minute, MatchProject(intervals, byTitle))

	byRegex := userconfig.RuleSet{TitleRegex: `Pull Request #\d+`}.MustCompile()
	assert.Equal(t, 30*time.Minute, MatchProject(intervals, byRegex))
}

func TestMatchProjectIgnoresInactive(t *testing.T) {
	iv := interval("Code", "main.go", base, time.Hour)
	iv.Active = false
	iv.ActiveDur = 0

	rules := userconfig.RuleSet{AppPatterns: []string{"code"}}.MustCompile()
	assert.Zero(t, MatchProject([]models.NormalizedInterval{iv}, rules))
}

// Manual tags and rule-matched time sum independently: a tag covering
// 10:00-11:00 plus a rule-matched interval 10:30-10:45 inside it yields
// 3600s + 900s = 4500s, not deduplicated.
func TestGetProjectTimeDoubleCountsOverlap(t *testing.T) {
	day := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	project := userconfig.Project{
		Name:  "awlens",
		Rules: userconfig.RuleSet{AppPatterns: []string{"code"}},
	}
	intervals := []models.NormalizedInterval{
		interval("Code", "main.go", day.Add(10*time.Hour+30*time.Minute), 15*time.Minute),
	}
	tags := []userconfig.ManualTag{
		{Project: "awlens", Start: day.Add(10 * time.Hour), End: day.Add(11 * time.Hour)},
	}

	pt := GetProjectTime(project, intervals, tags, day, day.AddDate(0, 0, 1))
	assert.Equal(t, 15*time.Minute, pt.RuleBased)
	assert.Equal(t, time.Hour, pt.Manual)
	assert.Equal(t, 75*time.Minute, pt.Total)
}

func TestGetProjectTimeClipsTagsToRange(t *testing.T) {
	day := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	project := userconfig.Project{Name: "p"}
	tags := []userconfig.ManualTag{
		// Extends an hour past the range end; only the inside part counts.
		{Project: "p", Start: day.Add(23 * time.Hour), End: day.Add(25 * time.Hour)},
	}

	pt := GetProjectTime(project, nil, tags, day, day.AddDate(0, 0, 1))
	assert.Equal(t, time.Hour, pt.Manual)
	assert.Zero(t, pt.RuleBased)
}
