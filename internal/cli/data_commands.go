package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (c *CLI) createBucketsCommand() *cobra.Command {
	var asJSON bool
	var info string

	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "List buckets in the event store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if info != "" {
				result, err := c.svc.BucketInfo(info)
				if err != nil {
					return err
				}
				return c.printJSON(result)
			}

			buckets, err := c.svc.Buckets()
			if err != nil {
				return err
			}
			if asJSON {
				return c.printJSON(buckets)
			}

			table := tablewriter.NewWriter(c.out)
			table.Header("ID", "Type", "Host", "Created")
			for _, b := range buckets {
				_ = table.Append([]string{b.ID, b.Type, b.Hostname, b.Created.Format("2006-01-02 15:04")})
			}
			return table.Render()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&info, "info", "", "print a summary of one bucket")
	return cmd
}

func (c *CLI) createEventsCommand() *cobra.Command {
	var startFlag, endFlag string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "events <bucket-id>",
		Short: "Show raw events from one bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseTimeFlag(startFlag, time.Time{})
			if err != nil {
				return err
			}
			end, err := parseTimeFlag(endFlag, time.Time{})
			if err != nil {
				return err
			}

			events, err := c.svc.Events(args[0], start, end, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return c.printJSON(events)
			}

			table := tablewriter.NewWriter(c.out)
			table.Header("Timestamp", "Duration", "App", "Title", "Status")
			for _, e := range events {
				_ = table.Append([]string{
					e.Timestamp.Local().Format(time.RFC3339),
					e.Duration.String(),
					e.Data.App,
					truncate(e.Data.Title, 60),
					e.Data.Status,
				})
			}
			return table.Render()
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "range start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "range end (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum events to return (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func (c *CLI) createExportCommand() *cobra.Command {
	var startFlag, endFlag, format, out string
	var bucketIDs []string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export raw events for a date range to JSON or CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := rangeFromFlags(startFlag, endFlag)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("awlens-export-%s.%s", start.Format("20060102"), strings.ToLower(format))
			}

			count, err := c.svc.Export(bucketIDs, start, end, format, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Exported %d events to %s\n", count, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "range start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "range end (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&bucketIDs, "bucket", nil, "bucket id to export (repeatable; default all)")
	cmd.Flags().StringVar(&format, "format", "json", "export format: json or csv")
	cmd.Flags().StringVar(&out, "out", "", "output file path")
	return cmd
}

func (c *CLI) createQueryCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a read-only SQL query against the event store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.svc.RawQuery(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return c.printJSON(result)
			}

			table := tablewriter.NewWriter(c.out)
			cols := make([]interface{}, len(result.Columns))
			for i, col := range result.Columns {
				cols[i] = col
			}
			table.Header(cols...)
			for _, row := range result.Rows {
				_ = table.Append(row)
			}
			return table.Render()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
