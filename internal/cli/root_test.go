package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Version(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := executeRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "meridian v")
}

func TestRootCmd_RunsEmptyStore(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	statePath := filepath.Join(dir, "state.db")
	out, err := executeRoot(t, "runs", "--state", statePath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet.")

	// The --state flag must have reached the store.
	assert.FileExists(t, statePath)
}

func TestRootCmd_RunWithoutPipelines(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := executeRoot(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pipelines configured")
}

func TestRootCmd_UnknownPipeline(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg := `
pipelines:
  unemployment:
    indicator: SL.UEM.TOTL.ZS
    table: unemployment
    date_range: "2000:2024"
    region_file: data/regions.csv
`
	require.NoError(t, writeFile(filepath.Join(dir, "meridian.yaml"), cfg))

	_, err := executeRoot(t, "run", "--select", "gdp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pipeline: gdp")
}
