package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/awlens/awlens/internal/analyze"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{90 * time.Minute, "01:30:00"},
		{25*time.Hour + time.Minute + time.Second, "25:01:01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}

func TestEntriesConversion(t *testing.T) {
	entries := Entries([]analyze.GroupTotal{
		{Key: "Code", Duration: 90 * time.Minute},
	})
	assert.Equal(t, "Code", entries[0].Name)
	assert.EqualValues(t, 5400, entries[0].Seconds)
	assert.Equal(t, "01:30:00", entries[0].Duration)
}

func TestDayMarkdown(t *testing.T) {
	r := &DayReport{
		Date:          "2026-08-24",
		Hosts:         []string{"host1"},
		AFKData:       true,
		ActiveSeconds: 5400,
		Active:        "01:30:00",
		TopApps: []Entry{
			{Name: "Code", Seconds: 5400, Duration: "01:30:00"},
		},
		FocusSessions: []SessionResult{
			{Start: "2026-08-24T09:00:00Z", End: "2026-08-24T10:30:00Z", App: "Code", Seconds: 5400, Duration: "01:30:00"},
		},
	}

	md := DayMarkdown(r)
	assert.Contains(t, md, "# Daily report — 2026-08-24")
	assert.Contains(t, md, "Hosts: host1")
	assert.Contains(t, md, "| Code | 01:30:00 |")
	assert.Contains(t, md, "## Focus sessions")
	assert.NotContains(t, md, "No AFK data")
}

func TestDayMarkdownAFKWarning(t *testing.T) {
	md := DayMarkdown(&DayReport{Date: "2026-08-24", AFKData: false})
	assert.Contains(t, md, "No AFK data")
}

func TestWeekMarkdownTable(t *testing.T) {
	r := &WeekReport{
		StartDate: "2026-08-24",
		EndDate:   "2026-08-30",
		AFKData:   true,
		Active:    "10:00:00",
		Days: []DayTotal{
			{Date: "2026-08-24", Seconds: 3600, Duration: "01:00:00"},
			{Date: "2026-08-25", Seconds: 0, Duration: "00:00:00"},
		},
	}

	md := WeekMarkdown(r)
	assert.Contains(t, md, "# Weekly report — 2026-08-24 to 2026-08-30")
	assert.Contains(t, md, "| 2026-08-24 | 01:00:00 |")
	// Table header separator present.
	assert.Contains(t, md, "| --- | --- |")
}

func TestProjectMarkdownCarriesOverlapNote(t *testing.T) {
	r := &ProjectReport{
		Project:          "awlens",
		Start:            "2026-08-24T00:00:00Z",
		End:              "2026-08-25T00:00:00Z",
		RuleBasedSeconds: 900,
		ManualSeconds:    3600,
		TotalSeconds:     4500,
		Note:             OverlapNote,
	}

	md := ProjectMarkdown(r)
	assert.Contains(t, md, "| Rule-based | 900 |")
	assert.Contains(t, md, "| Manual tags | 3600 |")
	assert.Contains(t, md, "| Total | 4500 |")
	assert.Contains(t, md, OverlapNote)
}

func TestProductivityMarkdown(t *testing.T) {
	r := &ProductivityReport{
		Start:              "2026-08-24T00:00:00Z",
		End:                "2026-08-25T00:00:00Z",
		AFKData:            true,
		ProductiveSeconds:  5400,
		NeutralSeconds:     900,
		DistractingSeconds: 1800,
		ByApp: []CategoryEntry{
			{App: "Code", ProductiveSeconds: 5400},
		},
	}

	md := ProductivityMarkdown(r)
	assert.Contains(t, md, "| Productive | 5400 |")
	assert.Contains(t, md, "## By app")
	assert.Contains(t, md, "| Code | 5400 | 0 | 0 |")
}

func TestFocusMarkdownEmpty(t *testing.T) {
	md := FocusMarkdown(&FocusReport{
		Start:      "2026-08-24T00:00:00Z",
		End:        "2026-08-25T00:00:00Z",
		AFKData:    true,
		MinMinutes: 30,
	})
	assert.Contains(t, md, "No focus sessions detected.")
}

// The renderer reshapes, it never recomputes: numbers in equal totals out.
func TestMarkdownDoesNotAlterTotals(t *testing.T) {
	r := &ProjectReport{RuleBasedSeconds: 1, ManualSeconds: 2, TotalSeconds: 99, Note: OverlapNote}
	md := ProjectMarkdown(r)
	assert.True(t, strings.Contains(md, "| Total | 99 |"))
}
