package adapter

import "fmt"

// ConstraintError is returned when an insert-mode load collides with an
// existing (year, country_code) key. The failed batch is rolled back and the
// table is left unchanged.
type ConstraintError struct {
	Table string
	Err   error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("duplicate key in table %q: %v", e.Table, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}
