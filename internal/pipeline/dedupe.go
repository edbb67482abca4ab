package pipeline

import "github.com/meridianhq/meridian/pkg/adapter"

// Deduplicate keeps one row per (year, country_code) key. When a key occurs
// more than once the last occurrence wins; the surviving row sits at the
// position of the key's first occurrence, so overall order stays stable.
// Silent duplicate keys would otherwise violate the table's primary key and
// abort the write.
func Deduplicate(rows []EnrichedRow) []EnrichedRow {
	if len(rows) == 0 {
		return rows
	}

	index := make(map[adapter.RowKey]int, len(rows))
	out := make([]EnrichedRow, 0, len(rows))
	for _, row := range rows {
		if i, seen := index[row.Key()]; seen {
			out[i] = row
			continue
		}
		index[row.Key()] = len(out)
		out = append(out, row)
	}
	return out
}
