// Package region loads the static country-to-region classification used to
// enrich normalized indicator rows.
package region

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Reference maps an ISO3 country code to its region name. It is loaded once
// per run and never mutated by the pipeline.
type Reference map[string]string

// ReferenceError is returned when the reference source cannot be read at
// all. Rows that simply fail to match a loaded reference are not an error.
type ReferenceError struct {
	Path string
	Err  error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("failed to load region reference %q: %v", e.Path, e.Err)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}

// Load reads the classification CSV wholesale. The file must carry Code and
// Region columns; their positions are located from the header and any other
// columns are ignored.
func Load(path string) (Reference, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ReferenceError{Path: path, Err: err}
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	// Classification exports pad or truncate trailing columns per row.
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, &ReferenceError{Path: path, Err: fmt.Errorf("failed to read header: %w", err)}
	}

	codeIdx, regionIdx := -1, -1
	for i, col := range header {
		switch col {
		case "Code":
			codeIdx = i
		case "Region":
			regionIdx = i
		}
	}
	if codeIdx < 0 || regionIdx < 0 {
		return nil, &ReferenceError{Path: path, Err: fmt.Errorf("missing Code or Region column in header %v", header)}
	}

	ref := make(Reference)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ReferenceError{Path: path, Err: err}
		}
		if codeIdx >= len(rec) || regionIdx >= len(rec) {
			continue
		}
		code := rec[codeIdx]
		if code == "" {
			continue
		}
		ref[code] = rec[regionIdx]
	}

	return ref, nil
}
