package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/awlens/awlens/internal/errs"
	"github.com/awlens/awlens/internal/report"
	"github.com/awlens/awlens/internal/userconfig"
)

func (c *CLI) createProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Define projects and attribute time to them",
	}
	cmd.AddCommand(
		c.createProjectDefineCommand(),
		c.createProjectListCommand(),
		c.createProjectDeleteCommand(),
		c.createProjectTimeCommand(),
	)
	return cmd
}

func ruleFlags(cmd *cobra.Command, apps, titles *[]string, titleRegex *string) {
	cmd.Flags().StringSliceVar(apps, "app", nil, "app-name substring pattern (repeatable, case-insensitive)")
	cmd.Flags().StringSliceVar(titles, "title", nil, "title substring pattern (repeatable, case-insensitive)")
	cmd.Flags().StringVar(titleRegex, "title-regex", "", "title regular expression")
}

func (c *CLI) createProjectDefineCommand() *cobra.Command {
	var apps, titles []string
	var titleRegex string

	cmd := &cobra.Command{
		Use:   "define <name>",
		Short: "Create or replace a project definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := userconfig.RuleSet{
				AppPatterns:   apps,
				TitlePatterns: titles,
				TitleRegex:    titleRegex,
			}
			if rules.Empty() {
				return errs.Validation("a project needs at least one rule (--app, --title, or --title-regex)")
			}
			project, err := c.svc.UserConfig().DefineProject(args[0], rules)
			if err != nil {
				return err
			}
			return c.printJSON(project)
		},
	}

	ruleFlags(cmd, &apps, &titles, &titleRegex)
	return cmd
}

func (c *CLI) createProjectListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List project definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects := c.svc.UserConfig().Projects()
			if asJSON {
				return c.printJSON(projects)
			}

			table := tablewriter.NewWriter(c.out)
			table.Header("Name", "App patterns", "Title patterns", "Title regex")
			for _, p := range projects {
				_ = table.Append([]string{
					p.Name,
					strings.Join(p.Rules.AppPatterns, ", "),
					strings.Join(p.Rules.TitlePatterns, ", "),
					p.Rules.TitleRegex,
				})
			}
			return table.Render()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func (c *CLI) createProjectDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a project definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.svc.UserConfig().DeleteProject(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Project %q deleted\n", args[0])
			return nil
		},
	}
}

func (c *CLI) createProjectTimeCommand() *cobra.Command {
	var startFlag, endFlag, host string
	var markdown bool

	cmd := &cobra.Command{
		Use:   "time <name>",
		Short: "Attributed time for a project over a range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := rangeFromFlags(startFlag, endFlag)
			if err != nil {
				return err
			}
			r, err := c.svc.ProjectTime(args[0], start, end, host)
			if err != nil {
				return err
			}
			if markdown {
				fmt.Fprint(c.out, report.ProjectMarkdown(r))
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

func (c *CLI) createTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manually tag time ranges with a project",
	}
	cmd.AddCommand(
		c.createTagAddCommand(),
		c.createTagListCommand(),
		c.createTagDeleteCommand(),
	)
	return cmd
}

func (c *CLI) createTagAddCommand() *cobra.Command {
	var startFlag, endFlag, notes string

	cmd := &cobra.Command{
		Use:   "add <project>",
		Short: "Record a manual time range for a project",
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
			if start.IsZero() || end.IsZero() {
				return errs.Validation("--start and --end are required")
			}

			tag, err := c.svc.UserConfig().AddTag(args[0], start, end, notes)
			if err != nil {
				return err
			}
			return c.printJSON(tag)
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "tag start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "tag end (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	return cmd
}

func (c *CLI) createTagListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List manual tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags := c.svc.UserConfig().Tags()
			if asJSON {
				return c.printJSON(tags)
			}

			table := tablewriter.NewWriter(c.out)
			table.Header("ID", "Project", "Start", "End", "Notes")
			for _, t := range tags {
				_ = table.Append([]string{
					t.ID,
					t.Project,
					t.Start.Local().Format(time.RFC3339),
					t.End.Local().Format(time.RFC3339),
					truncate(t.Notes, 40),
				})
			}
			return table.Render()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func (c *CLI) createTagDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a manual tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.svc.UserConfig().DeleteTag(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Tag %s deleted\n", args[0])
			return nil
		},
	}
}

func (c *CLI) createCategoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Configure productivity category rules",
	}

	var apps, titles []string
	var titleRegex string

	define := &cobra.Command{
		Use:   "define <productive|distracting>",
		Short: "Replace the rule table for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := userconfig.RuleSet{
				AppPatterns:   apps,
				TitlePatterns: titles,
				TitleRegex:    titleRegex,
			}
			if err := c.svc.UserConfig().DefineCategory(args[0], rules); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Category %q rules updated\n", args[0])
			return nil
		},
	}
	ruleFlags(define, &apps, &titles, &titleRegex)

	show := &cobra.Command{
		Use:   "show",
		Short: "Show configured category rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printJSON(c.svc.UserConfig().Categories())
		},
	}

	cmd.AddCommand(define, show)
	return cmd
}
