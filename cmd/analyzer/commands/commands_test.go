package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	appanalysis "github.com/bryanwahyu/automaton-pricing/internal/application/analysis"
	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DB_DRIVER", "")
	t.Setenv("MINIO_ENDPOINT", "")
	t.Cleanup(func() {
		localOnly, remoteOnly, analyzeSource, analyzeHTML = false, false, "", ""
		backfillLimit = appanalysis.DefaultBackfillLimit
		for _, c := range append(rootCmd.Commands(), rootCmd) {
			c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
			c.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		}
	})

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: error\n"), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", cfg, "--local-only"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := run(t, "", "analyze", "--source", "wallester.com",
		"white label wallet with monthly subscription $2,500")
	require.NoError(t, err)

	var res domain.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, domain.MethodLocal, res.Method)
	require.Equal(t, "$2,500", res.CommercialTerms.MonthlyCost)
}

func TestAnalyzeCommandStdinAndHTML(t *testing.T) {
	out, err := run(t, "kyc verification at $0.50 per verification", "analyze")
	require.NoError(t, err)
	require.Contains(t, out, `"KYC/KYB"`)

	page := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(page, []byte("<p>Payment gateway, setup fee $900</p>"), 0o600))
	out, err = run(t, "", "analyze", "--html", page)
	require.NoError(t, err)
	require.Contains(t, out, `"Payment Gateway"`)
}

func TestSelftestCommand(t *testing.T) {
	out, err := run(t, "", "selftest")
	require.NoError(t, err)

	var rep appanalysis.SelfTestReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Results, 3)
	require.EqualValues(t, 3, rep.Stats.TotalAnalyses)
}

func TestBackfillWithoutDatabase(t *testing.T) {
	_, err := run(t, "", "backfill", "--limit", "5")
	require.ErrorIs(t, err, appanalysis.ErrNoRecordStore)
}

func TestStageFlagsExclusive(t *testing.T) {
	_, err := run(t, "", "--gpt-only", "stats")
	require.Error(t, err)
}
