package pipeline

import "fmt"

// SchemaError is returned when a record that survived the null-drop still
// fails required-field coercion. It aborts the transform for the run.
type SchemaError struct {
	Field  string
	Value  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error on field %q: cannot coerce %q: %s", e.Field, e.Value, e.Reason)
}

// ConfigError is returned for an unsupported mode value or a missing required
// configuration key, before any I/O side effect.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Key, e.Reason)
}
