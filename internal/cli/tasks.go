package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tkc/tp-todo/internal/config"
	"github.com/tkc/tp-todo/internal/domain"
	"github.com/tkc/tp-todo/internal/printer"
	"github.com/tkc/tp-todo/internal/targetprocess"
)

var showDescription bool

// listing はタスク一覧コマンドのフィルタ
type listing func(c *config.Config) domain.TaskFilter

var listings = map[string]listing{
	"now": func(c *config.Config) domain.TaskFilter {
		return domain.TaskFilter{User: c.Filter.User, InProgress: true}
	},
	"next": func(c *config.Config) domain.TaskFilter {
		return domain.TaskFilter{Team: c.Filter.Team, CurrentSprint: true, Defined: true}
	},
	"team": func(c *config.Config) domain.TaskFilter {
		return domain.TaskFilter{Team: c.Filter.Team, CurrentSprint: true}
	},
}

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "show my tasks in progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, listings["now"])
	},
}

var nextCmd = &cobra.Command{
	Use:     "next",
	Aliases: []string{"n"},
	Short:   "show unassigned tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, listings["next"])
	},
}

var teamCmd = &cobra.Command{
	Use:     "team",
	Aliases: []string{"t"},
	Short:   "show all tasks for my team",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, listings["team"])
	},
}

func runListing(cmd *cobra.Command, filter listing) error {
	if !cfg.IsConfigured() {
		return configureFirst(cmd)
	}

	format, err := printer.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	client := targetprocess.NewClient(cfg.TargetProcess.URL, cfg.TargetProcess.Token)
	taskSvc := targetprocess.NewTaskService(client)

	tasks, err := taskSvc.FetchTasks(cmd.Context(), filter(cfg))
	if err != nil {
		return err
	}

	p := printer.New(cmd.OutOrStdout(), noColor)
	return p.PrintTasks(tasks, printer.Options{
		ShowDescription: showDescription,
		Format:          format,
	})
}

// configureFirst は設定が足りないときにウィザードへ誘導する
func configureFirst(cmd *cobra.Command) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "The configuration is missing or incomplete. Please answer the following questions...")
	return runWizard(cmd)
}

func addDescriptionFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&showDescription, "show-description", "d", false, "Show Description")
}

func init() {
	addDescriptionFlag(nowCmd)
	addDescriptionFlag(nextCmd)
	addDescriptionFlag(teamCmd)
}
