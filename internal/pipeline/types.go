// Package pipeline holds the pure transform steps of the indicator pipeline:
// normalization, region enrichment and key deduplication. All functions are
// deterministic and side-effect free; I/O lives in the engine and adapters.
package pipeline

import "github.com/meridianhq/meridian/pkg/adapter"

// NormalizedRow is a raw record projected onto the flat target schema.
// Year and Value are never the zero-for-missing kind here: records with a
// missing year or value are dropped during normalization, not later.
type NormalizedRow struct {
	Year           int
	CountryCode    string
	CountryName    string
	IndicatorID    string
	IndicatorValue string
	Value          float64
}

// EnrichedRow is a normalized row plus its region, and is exactly the shape
// persisted by the loader.
type EnrichedRow = adapter.IndicatorRow
