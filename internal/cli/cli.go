package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/awlens/awlens/internal/service"
)

// CLI wires the analysis service into cobra commands.
type CLI struct {
	svc    *service.AnalysisService
	logger *zap.Logger
	out    io.Writer
}

// New creates the CLI.
func New(svc *service.AnalysisService, logger *zap.Logger) *CLI {
	return &CLI{svc: svc, logger: logger, out: os.Stdout}
}

// RootCommand builds the full command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "awlens",
		Short:         "Analyze locally tracked activity events",
		Long:          "awlens reads the local activity event store and derives usage reports, focus sessions, project time attribution and productivity classification.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		c.createBucketsCommand(),
		c.createEventsCommand(),
		c.createReportCommand(),
		c.createAppsCommand(),
		c.createFocusCommand(),
		c.createProjectCommand(),
		c.createTagCommand(),
		c.createCategoryCommand(),
		c.createProductivityCommand(),
		c.createExportCommand(),
		c.createQueryCommand(),
	)

	return root
}

// printJSON renders a result object for programmatic consumers.
func (c *CLI) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Fprintln(c.out, string(data))
	return nil
}

// parseTimeFlag accepts RFC 3339 timestamps or plain dates (local
// midnight). Empty values fall back to def.
func parseTimeFlag(value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if d, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want RFC3339 or YYYY-MM-DD)", value)
}

// rangeFromFlags resolves --start/--end, defaulting to today so far.
func rangeFromFlags(startFlag, endFlag string) (time.Time, time.Time, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	start, err := parseTimeFlag(startFlag, midnight)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseTimeFlag(endFlag, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
