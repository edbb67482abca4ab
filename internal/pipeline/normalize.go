package pipeline

import (
	"strconv"

	"github.com/meridianhq/meridian/internal/worldbank"
)

// NormalizeOptions tunes normalization for a specific pipeline.
type NormalizeOptions struct {
	// Countries, when non-empty, retains only rows whose country display
	// name is in the set. Default behavior retains all countries.
	Countries []string
}

// Normalize projects raw records onto the flat target schema: six fields are
// kept under their renamed keys and everything else is discarded. Records
// with a missing year or value are dropped before type coercion. Input order
// is preserved minus dropped records.
//
// A surviving record whose year cannot be coerced to an integer fails the
// whole transform with a *SchemaError.
func Normalize(records []worldbank.Record, opts NormalizeOptions) ([]NormalizedRow, error) {
	var allow map[string]struct{}
	if len(opts.Countries) > 0 {
		allow = make(map[string]struct{}, len(opts.Countries))
		for _, c := range opts.Countries {
			allow[c] = struct{}{}
		}
	}

	rows := make([]NormalizedRow, 0, len(records))
	for _, rec := range records {
		// The null-drop happens on the renamed fields, after projection.
		if rec.Date == "" || rec.Value == nil {
			continue
		}

		if allow != nil {
			if _, ok := allow[rec.Country.Value]; !ok {
				continue
			}
		}

		year, err := strconv.Atoi(rec.Date)
		if err != nil {
			return nil, &SchemaError{Field: "year", Value: rec.Date, Reason: "not an integer"}
		}

		rows = append(rows, NormalizedRow{
			Year:           year,
			CountryCode:    rec.CountryISO3,
			CountryName:    rec.Country.Value,
			IndicatorID:    rec.Indicator.ID,
			IndicatorValue: rec.Indicator.Value,
			Value:          *rec.Value,
		})
	}

	return rows, nil
}
