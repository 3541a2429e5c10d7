package report

import (
	"fmt"
	"time"

	"github.com/awlens/awlens/internal/analyze"
)

// Result shapes for programmatic consumers. All durations are seconds, all
// timestamps ISO-8601. The renderer never computes totals, it only reshapes
// what the analyzers produced.

// Entry is one named total in a breakdown or top-N list.
type Entry struct {
	Name     string `json:"name"`
	Seconds  int64  `json:"duration_seconds"`
	Duration string `json:"duration"`
}

// SessionResult is one detected focus session.
type SessionResult struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	App      string `json:"app"`
	Seconds  int64  `json:"duration_seconds"`
	Duration string `json:"duration"`
}

// DayReport summarizes one local calendar day.
type DayReport struct {
	Date          string          `json:"date"`
	Hosts         []string        `json:"hosts"`
	AFKData       bool            `json:"afk_data"`
	Warning       string          `json:"warning,omitempty"`
	ActiveSeconds int64           `json:"active_seconds"`
	Active        string          `json:"active"`
	TopApps       []Entry         `json:"top_apps"`
	TopTitles     []Entry         `json:"top_titles"`
	FocusSessions []SessionResult `json:"focus_sessions"`
}

// DayTotal is one day's slice of a week report.
type DayTotal struct {
	Date     string `json:"date"`
	Seconds  int64  `json:"active_seconds"`
	Duration string `json:"active"`
}

// WeekReport summarizes seven consecutive local days.
type WeekReport struct {
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	Hosts         []string   `json:"hosts"`
	AFKData       bool       `json:"afk_data"`
	Warning       string     `json:"warning,omitempty"`
	ActiveSeconds int64      `json:"active_seconds"`
	Active        string     `json:"active"`
	Days          []DayTotal `json:"days"`
	TopApps       []Entry    `json:"top_apps"`
}

// AppsReport is the per-app breakdown over an arbitrary range.
type AppsReport struct {
	Start         string   `json:"start"`
	End           string   `json:"end"`
	Hosts         []string `json:"hosts"`
	AFKData       bool     `json:"afk_data"`
	Warning       string   `json:"warning,omitempty"`
	ActiveSeconds int64    `json:"active_seconds"`
	Apps          []Entry  `json:"apps"`
}

// FocusReport lists detected focus sessions over a range.
type FocusReport struct {
	Start      string          `json:"start"`
	End        string          `json:"end"`
	Hosts      []string        `json:"hosts"`
	AFKData    bool            `json:"afk_data"`
	Warning    string          `json:"warning,omitempty"`
	MinMinutes int             `json:"min_minutes"`
	Sessions   []SessionResult `json:"sessions"`
}

// ProjectReport is the time attribution for one project. Rule-based and
// manual time are independent sums; overlapping spans count in both.
type ProjectReport struct {
	Project          string `json:"project"`
	Start            string `json:"start"`
	End              string `json:"end"`
	Warning          string `json:"warning,omitempty"`
	RuleBasedSeconds int64  `json:"rule_based_seconds"`
	ManualSeconds    int64  `json:"manual_seconds"`
	TotalSeconds     int64  `json:"total_seconds"`
	Note             string `json:"note"`
}

// OverlapNote documents the known double count between manual tags and
// rule-matched intervals.
const OverlapNote = "rule_based and manual time are summed independently; overlapping spans are counted in both"

// CategoryEntry is one app row of a productivity report.
type CategoryEntry struct {
	App                string `json:"app"`
	ProductiveSeconds  int64  `json:"productive_seconds"`
	NeutralSeconds     int64  `json:"neutral_seconds"`
	DistractingSeconds int64  `json:"distracting_seconds"`
}

// ProductivityReport splits active time across categories.
type ProductivityReport struct {
	Start              string          `json:"start"`
	End                string          `json:"end"`
	Hosts              []string        `json:"hosts"`
	AFKData            bool            `json:"afk_data"`
	Warning            string          `json:"warning,omitempty"`
	ProductiveSeconds  int64           `json:"productive_seconds"`
	NeutralSeconds     int64           `json:"neutral_seconds"`
	DistractingSeconds int64           `json:"distracting_seconds"`
	ByApp              []CategoryEntry `json:"by_app"`
}

// Seconds converts a duration to whole seconds for result objects.
func Seconds(d time.Duration) int64 {
	return int64(d.Seconds())
}

// FormatDuration renders a duration as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	secs := int64(d.Seconds())
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ISO renders a timestamp in RFC 3339 / ISO-8601 form.
func ISO(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Entries converts aggregation groups to result entries.
func Entries(groups []analyze.GroupTotal) []Entry {
	entries := make([]Entry, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, Entry{
			Name:     g.Key,
			Seconds:  Seconds(g.Duration),
			Duration: FormatDuration(g.Duration),
		})
	}
	return entries
}

// Sessions converts detected sessions to result entries.
func Sessions(sessions []analyze.Session) []SessionResult {
	results := make([]SessionResult, 0, len(sessions))
	for _, s := range sessions {
		results = append(results, SessionResult{
			Start:    ISO(s.Start),
			End:      ISO(s.End),
			App:      s.App,
			Seconds:  Seconds(s.Duration),
			Duration: FormatDuration(s.Duration),
		})
	}
	return results
}

// CategoryEntries converts a per-app productivity breakdown.
func CategoryEntries(byApp []analyze.AppProductivity) []CategoryEntry {
	entries := make([]CategoryEntry, 0, len(byApp))
	for _, a := range byApp {
		entries = append(entries, CategoryEntry{
			App:                a.App,
			ProductiveSeconds:  Seconds(a.Productive),
			NeutralSeconds:     Seconds(a.Neutral),
			DistractingSeconds: Seconds(a.Distracting),
		})
	}
	return entries
}
