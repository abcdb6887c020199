package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/automaton-pricing/internal/app"
	"github.com/bryanwahyu/automaton-pricing/internal/textproc"
)

var (
	analyzeSource string
	analyzeHTML   string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSource, "source", "", "Source domain or URL of the text.")
	analyzeCmd.Flags().StringVar(&analyzeHTML, "html", "", "Read an HTML file instead of text arguments.")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyzes text from arguments, an HTML file, or stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		return withApp(func(cmd *cobra.Command, a *app.App) error {
			return printJSON(cmd.OutOrStdout(), a.Service.Analyze(cmd.Context(), text, analyzeSource))
		})(cmd, args)
	},
}

func readInput(stdin io.Reader, args []string) (string, error) {
	switch {
	case analyzeHTML != "":
		raw, err := os.ReadFile(analyzeHTML)
		if err != nil {
			return "", err
		}
		return textproc.HTMLToText(string(raw))
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	}
}
