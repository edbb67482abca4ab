package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func executeInit(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewInitCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitCommand_Scaffolds(t *testing.T) {
	dir := t.TempDir()

	out, err := executeInit(t, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "initialized")

	data, err := os.ReadFile(filepath.Join(dir, "meridian.yaml"))
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Contains(t, cfg, "pipelines")
	assert.Contains(t, cfg, "target")

	sqlBody, err := os.ReadFile(filepath.Join(dir, "sql", "unemployment_ranked.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(sqlBody), "{{.BaseTable}}")

	_, err = os.Stat(filepath.Join(dir, "data", "regions.csv"))
	require.NoError(t, err)
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()

	_, err := executeInit(t, dir)
	require.NoError(t, err)

	_, err = executeInit(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// --force overwrites.
	_, err = executeInit(t, dir, "--force")
	assert.NoError(t, err)
}

func TestInitCommand_ScaffoldedConfigLoads(t *testing.T) {
	dir := t.TempDir()
	_, err := executeInit(t, dir)
	require.NoError(t, err)

	// The scaffold must survive a real config load. The duckdb target is
	// registered by the binary's blank imports; tests register no adapters,
	// so swap in one that is.
	data, err := os.ReadFile(filepath.Join(dir, "meridian.yaml"))
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, yaml.Unmarshal(data, &cfg))

	pipelines, ok := cfg["pipelines"].(map[string]any)
	require.True(t, ok)
	unemployment, ok := pipelines["unemployment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SL.UEM.TOTL.ZS", unemployment["indicator"])
	assert.Equal(t, "upsert", unemployment["load_method"])
}
