package pipeline

import "github.com/meridianhq/meridian/internal/region"

// Enrich inner-joins rows against the region reference on country_code.
// Rows with no matching reference entry are excluded from the result; they
// are counted in dropped so callers can surface the silent data loss rather
// than hide it. Order is preserved.
func Enrich(rows []NormalizedRow, ref region.Reference) (enriched []EnrichedRow, dropped int) {
	enriched = make([]EnrichedRow, 0, len(rows))
	for _, row := range rows {
		reg, ok := ref[row.CountryCode]
		if !ok {
			dropped++
			continue
		}
		enriched = append(enriched, EnrichedRow{
			Year:           row.Year,
			CountryCode:    row.CountryCode,
			CountryName:    row.CountryName,
			IndicatorID:    row.IndicatorID,
			IndicatorValue: row.IndicatorValue,
			Value:          row.Value,
			Region:         reg,
		})
	}
	return enriched, dropped
}
