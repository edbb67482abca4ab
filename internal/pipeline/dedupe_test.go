package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicate_LastOccurrenceWins(t *testing.T) {
	rows := []EnrichedRow{
		{Year: 2020, CountryCode: "DEU", Value: 1.0},
		{Year: 2021, CountryCode: "DEU", Value: 3.5},
		{Year: 2020, CountryCode: "DEU", Value: 2.0},
	}

	out := Deduplicate(rows)

	require.Len(t, out, 2)
	// Survivor keeps the first occurrence's position with the last
	// occurrence's values.
	assert.Equal(t, 2020, out[0].Year)
	assert.Equal(t, 2.0, out[0].Value)
	assert.Equal(t, 2021, out[1].Year)
	assert.Equal(t, 3.5, out[1].Value)
}

func TestDeduplicate_DistinctKeysUntouched(t *testing.T) {
	rows := []EnrichedRow{
		{Year: 2020, CountryCode: "DEU", Value: 3.8},
		{Year: 2020, CountryCode: "FRA", Value: 8.0},
		{Year: 2021, CountryCode: "DEU", Value: 3.5},
	}

	assert.Equal(t, rows, Deduplicate(rows))
}

func TestDeduplicate_Empty(t *testing.T) {
	assert.Empty(t, Deduplicate(nil))
}
