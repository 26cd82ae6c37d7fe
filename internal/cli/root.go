package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tkc/tp-todo/internal/config"
)

var (
	cfg          *config.Config
	verbose      bool
	configPath   string
	noColor      bool
	outputFormat string
)

// rootCmd はルートコマンド
// サブコマンドを省略すると設定のデフォルトコマンドを実行する
var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "Show your TargetProcess tasks",
	Long: `todo is a CLI tool that lists TargetProcess tasks.

It fetches the tasks matching a filter (mine in progress, unassigned in the
current sprint, or everything for my team), resolves where each task is in
its team workflow, and prints a summary.

Without a subcommand the configured default command is run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(cmd, verbose)

		var err error
		cfg, err = config.LoadWithPrecedence(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log.WithField("path", cfg.Path).Debug("config loaded")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.IsConfigured() {
			return configureFirst(cmd)
		}
		name := cfg.CLI.DefaultCommand
		listing, ok := listings[name]
		if !ok {
			return fmt.Errorf("unknown default command %q (now, next, team)", name)
		}
		log.WithField("command", name).Debug("running default command")
		return runListing(cmd, listing)
	},
}

// Execute はCLIを実行する
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, verbose bool) {
	log.SetOutput(cmd.ErrOrStderr())
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: rc-style search for .todorc)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format (text, json, yaml)")
	addDescriptionFlag(rootCmd)

	rootCmd.AddCommand(nowCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(configCmd)
}
