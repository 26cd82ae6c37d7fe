package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tkc/tp-todo/internal/setup"
	"github.com/tkc/tp-todo/internal/targetprocess"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "update the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard(cmd)
	},
}

func runWizard(cmd *cobra.Command) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home dir: %w", err)
	}

	newClient := func(baseURL, token string) setup.UserFetcher {
		return targetprocess.NewClient(baseURL, token)
	}

	wizard := setup.New(cmd.InOrStdin(), cmd.OutOrStdout(), home, newClient)
	_, err = wizard.Run(cmd.Context(), cfg)
	return err
}
