package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/accomplish/internal/importer"
)

func runCLI(t *testing.T, args ...string) (string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute(), stderr.String())
	return stdout.String(), stderr.String()
}

func TestCLI_ImportThenExport(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ACCOMPLISH_DB_PATH", filepath.Join(dir, "data", "accomplish.db"))
	t.Setenv("ACCOMPLISH_LOG_LEVEL", "error")

	csvPath := filepath.Join(dir, "report.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(`year,month,ACTUAL ACCOMPLISHMENTS,Activity Name
2024,March,Alpha,Review
2024,January,Alpha,Kickoff
`), 0o644))

	out, _ := runCLI(t, "import", csvPath)
	var res importer.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, 2, res.Count)
	require.Equal(t, 1, res.Projects)

	out, _ = runCLI(t, "export", "--format", "csv", "--sort", "asc", "--out", "-")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[1], `"Kickoff"`)

	target := filepath.Join(dir, "report.pdf")
	_, stderr := runCLI(t, "export", "--format", "pdf", "--out", target)
	require.Contains(t, stderr, "wrote 2 records")
	info, err := os.Stat(target)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestCLI_APIKeyCreate(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ACCOMPLISH_DB_PATH", filepath.Join(dir, "accomplish.db"))
	t.Setenv("ACCOMPLISH_AUTH_ENABLED", "true")

	out, _ := runCLI(t, "apikey", "create", "--description", "ci")
	require.True(t, strings.HasPrefix(strings.TrimSpace(out), "acc_"))
}
