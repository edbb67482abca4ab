package pipeline

import "fmt"

// LoadMethod is the closed set of load strategies. String-valued modes from
// configuration are parsed at the boundary, so an unsupported value is
// rejected before any warehouse I/O happens.
type LoadMethod int

const (
	// LoadInsert appends all rows, failing on duplicate keys.
	LoadInsert LoadMethod = iota
	// LoadUpsert inserts or updates keyed on (year, country_code).
	LoadUpsert
	// LoadOverwrite drops and recreates the table before inserting.
	LoadOverwrite
)

func (m LoadMethod) String() string {
	switch m {
	case LoadInsert:
		return "insert"
	case LoadUpsert:
		return "upsert"
	case LoadOverwrite:
		return "overwrite"
	default:
		return fmt.Sprintf("LoadMethod(%d)", int(m))
	}
}

// ParseLoadMethod parses a configured load method string.
func ParseLoadMethod(s string) (LoadMethod, error) {
	switch s {
	case "insert":
		return LoadInsert, nil
	case "upsert":
		return LoadUpsert, nil
	case "overwrite":
		return LoadOverwrite, nil
	default:
		return 0, &ConfigError{Key: "load_method", Reason: fmt.Sprintf("unsupported value %q, want one of insert, upsert, overwrite", s)}
	}
}

// ExtractMode selects between a full-range and an incremental extract.
type ExtractMode int

const (
	// ExtractFull always fetches the configured full date range.
	ExtractFull ExtractMode = iota
	// ExtractIncremental fetches one year past the persisted watermark.
	ExtractIncremental
)

func (m ExtractMode) String() string {
	switch m {
	case ExtractFull:
		return "full"
	case ExtractIncremental:
		return "incremental"
	default:
		return fmt.Sprintf("ExtractMode(%d)", int(m))
	}
}

// ParseExtractMode parses a configured extract mode string.
func ParseExtractMode(s string) (ExtractMode, error) {
	switch s {
	case "full":
		return ExtractFull, nil
	case "incremental":
		return ExtractIncremental, nil
	default:
		return 0, &ConfigError{Key: "extract.mode", Reason: fmt.Sprintf("unsupported value %q, want full or incremental", s)}
	}
}
