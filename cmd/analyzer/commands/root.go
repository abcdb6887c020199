package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/automaton-pricing/internal/app"
	"github.com/bryanwahyu/automaton-pricing/internal/config"
)

var (
	configPath string
	localOnly  bool
	remoteOnly bool
)

var rootCmd = &cobra.Command{
	Use:           "analyzer",
	Short:         "analyzer classifies scraped pricing text and backfills stored records.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (defaults to $CONFIG_PATH or ./config.yaml).")
	rootCmd.PersistentFlags().BoolVar(&localOnly, "local-only", false, "Disable the remote model stage.")
	rootCmd.PersistentFlags().BoolVar(&remoteOnly, "gpt-only", false, "Disable the local classifier stage.")
	rootCmd.MarkFlagsMutuallyExclusive("local-only", "gpt-only")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// build loads config with the stage flags applied and wires the app.
func build(ctx context.Context) (*app.App, error) {
	var overrides []config.Override
	if localOnly {
		overrides = append(overrides, config.LocalOnly)
	}
	if remoteOnly {
		overrides = append(overrides, config.RemoteOnly)
	}
	cfg, err := config.Load(configPath, overrides...)
	if err != nil {
		return nil, err
	}
	app.SetupLogging(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	return app.New(ctx, cfg)
}

func withApp(fn func(cmd *cobra.Command, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := build(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var errFailedRecords = errors.New("some records failed to save")
