package commands

import (
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/automaton-pricing/internal/app"
)

func init() {
	rootCmd.AddCommand(selftestCmd)
}

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Runs the reference pricing texts through the analyzer.",
	RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
		return printJSON(cmd.OutOrStdout(), a.Service.SelfTest(cmd.Context()))
	}),
}
