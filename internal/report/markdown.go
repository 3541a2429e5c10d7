package report

import (
	"fmt"
	"strings"
)

// Markdown rendering for human sharing. Formatting only: every number here
// was computed upstream.

func mdTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
}

func mdPreamble(b *strings.Builder, hosts []string, afkData bool, warning string) {
	if len(hosts) > 0 {
		fmt.Fprintf(b, "Hosts: %s\n\n", strings.Join(hosts, ", "))
	}
	if !afkData {
		b.WriteString("> No AFK data for this range; all time treated as active.\n\n")
	}
	if warning != "" {
		fmt.Fprintf(b, "> Warning: %s\n\n", warning)
	}
}

func entryRows(entries []Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, e.Duration})
	}
	return rows
}

// DayMarkdown renders a daily report.
func DayMarkdown(r *DayReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily report — %s\n\n", r.Date)
	mdPreamble(&b, r.Hosts, r.AFKData, r.Warning)
	fmt.Fprintf(&b, "**Active time:** %s\n\n", r.Active)

	if len(r.TopApps) > 0 {
		b.WriteString("## Top apps\n\n")
		mdTable(&b, []string{"App", "Active"}, entryRows(r.TopApps))
		b.WriteString("\n")
	}
	if len(r.TopTitles) > 0 {
		b.WriteString("## Top titles\n\n")
		mdTable(&b, []string{"Title", "Active"}, entryRows(r.TopTitles))
		b.WriteString("\n")
	}
	if len(r.FocusSessions) > 0 {
		b.WriteString("## Focus sessions\n\n")
		rows := make([][]string, 0, len(r.FocusSessions))
		for _, s := range r.FocusSessions {
			rows = append(rows, []string{s.Start, s.End, s.App, s.Duration})
		}
		mdTable(&b, []string{"Start", "End", "App", "Duration"}, rows)
		b.WriteString("\n")
	}
	return b.String()
}

// WeekMarkdown renders a weekly report.
func WeekMarkdown(r *WeekReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Weekly report — %s to %s\n\n", r.StartDate, r.EndDate)
	mdPreamble(&b, r.Hosts, r.AFKData, r.Warning)
	fmt.Fprintf(&b, "**Active time:** %s\n\n", r.Active)

	if len(r.Days) > 0 {
		b.WriteString("## By day\n\n")
		rows := make([][]string, 0, len(r.Days))
		for _, d := range r.Days {
			rows = append(rows, []string{d.Date, d.Duration})
		}
		mdTable(&b, []string{"Day", "Active"}, rows)
		b.WriteString("\n")
	}
	if len(r.TopApps) > 0 {
		b.WriteString("## Top apps\n\n")
		mdTable(&b, []string{"App", "Active"}, entryRows(r.TopApps))
		b.WriteString("\n")
	}
	return b.String()
}

// ProjectMarkdown renders a project attribution report.
func ProjectMarkdown(r *ProjectReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Project report — %s\n\n", r.Project)
	fmt.Fprintf(&b, "Range: %s to %s\n\n", r.Start, r.End)
	if r.Warning != "" {
		fmt.Fprintf(&b, "> Warning: %s\n\n", r.Warning)
	}
	mdTable(&b, []string{"Source", "Seconds"}, [][]string{
		{"Rule-based", fmt.Sprintf("%d", r.RuleBasedSeconds)},
		{"Manual tags", fmt.Sprintf("%d", r.ManualSeconds)},
		{"Total", fmt.Sprintf("%d", r.TotalSeconds)},
	})
	fmt.Fprintf(&b, "\n> %s\n", r.Note)
	return b.String()
}

// ProductivityMarkdown renders a productivity report.
func ProductivityMarkdown(r *ProductivityReport) string {
	var b strings.Builder
	b.WriteString("# Productivity report\n\n")
	fmt.Fprintf(&b, "Range: %s to %s\n\n", r.Start, r.End)
	mdPreamble(&b, r.Hosts, r.AFKData, r.Warning)
	mdTable(&b, []string{"Category", "Seconds"}, [][]string{
		{"Productive", fmt.Sprintf("%d", r.ProductiveSeconds)},
		{"Neutral", fmt.Sprintf("%d", r.NeutralSeconds)},
		{"Distracting", fmt.Sprintf("%d", r.DistractingSeconds)},
	})
	b.WriteString("\n")

	if len(r.ByApp) > 0 {
		b.WriteString("## By app\n\n")
		rows := make([][]string, 0, len(r.ByApp))
		for _, a := range r.ByApp {
			rows = append(rows, []string{
				a.App,
				fmt.Sprintf("%d", a.ProductiveSeconds),
				fmt.Sprintf("%d", a.NeutralSeconds),
				fmt.Sprintf("%d", a.DistractingSeconds),
			})
		}
		mdTable(&b, []string{"App", "Productive (s)", "Neutral (s)", "Distracting (s)"}, rows)
		b.WriteString("\n")
	}
	return b.String()
}

// FocusMarkdown renders a focus session report.
func FocusMarkdown(r *FocusReport) string {
	var b strings.Builder
	b.WriteString("# Focus sessions\n\n")
	fmt.Fprintf(&b, "Range: %s to %s (minimum %d minutes)\n\n", r.Start, r.End, r.MinMinutes)
	mdPreamble(&b, r.Hosts, r.AFKData, r.Warning)
	if len(r.Sessions) == 0 {
		b.WriteString("No focus sessions detected.\n")
		return b.String()
	}
	rows := make([][]string, 0, len(r.Sessions))
	for _, s := range r.Sessions {
		rows = append(rows, []string{s.Start, s.End, s.App, s.Duration})
	}
	mdTable(&b, []string{"Start", "End", "App", "Duration"}, rows)
	return b.String()
}
