package region

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, `Code,Economy,Region,Income group
DEU,Germany,Europe & Central Asia,High income
SGP,Singapore,East Asia & Pacific,High income
,Aggregates,,
XKX,Kosovo
`)

	ref, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Europe & Central Asia", ref["DEU"])
	assert.Equal(t, "East Asia & Pacific", ref["SGP"])

	// Blank codes and rows without a region column are skipped.
	assert.NotContains(t, ref, "")
	assert.NotContains(t, ref, "XKX")
	assert.Len(t, ref, 2)
}

func TestLoad_ColumnOrderIrrelevant(t *testing.T) {
	path := writeCSV(t, `Region,Code
North America,USA
`)

	ref, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "North America", ref["USA"])
}

func TestLoad_MissingColumns(t *testing.T) {
	path := writeCSV(t, `ISO,Name
DEU,Germany
`)

	_, err := Load(path)
	require.Error(t, err)

	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, path, refErr.Path)
	assert.ErrorContains(t, err, "missing Code or Region column")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)

	var refErr *ReferenceError
	assert.ErrorAs(t, err, &refErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
