package commands

import (
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/automaton-pricing/internal/app"
	"github.com/bryanwahyu/automaton-pricing/internal/middleware"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints analyzer, runtime and dependency health information.",
	RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"system": a.Service.SystemStats(),
			"health": middleware.RunChecks(cmd.Context(), a.Checkers),
		})
	}),
}
