package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/awlens/awlens/internal/report"
)

func (c *CLI) createReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Daily and weekly usage reports",
	}
	cmd.AddCommand(c.createDayReportCommand(), c.createWeekReportCommand())
	return cmd
}

func (c *CLI) createDayReportCommand() *cobra.Command {
	var host string
	var markdown bool

	cmd := &cobra.Command{
		Use:   "day [date]",
		Short: "Report for one day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now()
			if len(args) == 1 {
				parsed, err := parseTimeFlag(args[0], date)
				if err != nil {
					return err
				}
				date = parsed
			}

			r, err := c.svc.DayReport(date, host)
			if err != nil {
				return err
			}
			if markdown {
				fmt.Fprint(c.out, report.DayMarkdown(r))
				return nil
			}
			return c.printJSON(r)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "restrict to one hostname")
	cmd.Flags().BoolVar(&markdown, "md", false, "render Markdown instead of JSON")
	return cmd
}

func (c *CLI) createWeekReportCommand() *cobra.Command {
	var host string
	var markdown bool

	cmd := &cobra.Command{
		Use:   "week [date]",
		Short: "Report for the week containing a date (default this week)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now()
			if len(args) == 1 {
				parsed, err := parseTimeFlag(args[0], date)
				if err != nil {
					return err
				}
				date = parsed
			}

			r, err := c.svc.WeekReport(date, host)
			if err != nil {
				return err
			}
			if markdown {
				fmt.Fprint(c.out, report.WeekMarkdown(r))
				return nil
			}
			return c.printJSON(r)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "restrict to one hostname")
	cmd.Flags().BoolVar(&markdown, "md", false, "render Markdown instead of JSON")
	return cmd
}

func (c *CLI) createAppsCommand() *cobra.Command {
	var startFlag, endFlag, host string

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Per-app active time over a range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := rangeFromFlags(startFlag, endFlag)
			if err != nil {
				return err
			}
			r, err := c.svc.AppsReport(start, end, host)
			if err != nil {
				return err
			}
			return c.printJSON(r)
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "range start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "range end (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&host, "host", "", "restrict to one hostname")
	return cmd
}

func (c *CLI) createFocusCommand() *cobra.Command {
	var startFlag, endFlag, host string
	var minMinutes int
	var markdown bool

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Detect focus sessions over a range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := rangeFromFlags(startFlag, endFlag)
			if err != nil {
				return err
			}
			r, err := c.svc.FocusReport(start, end, host, minMinutes)
			if err != nil {
				return err
			}
			if markdown {
				fmt.Fprint(c.out, report.FocusMarkdown(r))
				return nil
			}
			return c.printJSON(r)
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "range start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "range end (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&host, "host", "", "restrict to one hostname")
	cmd.Flags().IntVar(&minMinutes, "min", 0, "minimum session minutes (default from config)")
	cmd.Flags().BoolVar(&markdown, "md", false, "render Markdown instead of JSON")
	return cmd
}

func (c *CLI) createProductivityCommand() *cobra.Command {
	var startFlag, endFlag, host string
	var markdown bool

	cmd := &cobra.Command{
		Use:   "productivity",
		Short: "Classify active time as productive, neutral, or distracting",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := rangeFromFlags(startFlag, endFlag)
			if err != nil {
				return err
			}
			r, err := c.svc.ProductivityReport(start, end, host)
			if err != nil {
				return err
			}
			if markdown {
				fmt.Fprint(c.out, report.ProductivityMarkdown(r))
				return nil
			}
			return c.printJSON(r)
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "range start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "range end (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&host, "host", "", "restrict to one hostname")
	cmd.Flags().BoolVar(&markdown, "md", false, "render Markdown instead of JSON")
	return cmd
}
