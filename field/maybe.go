package field

import (
	"encoding/json"
	"fmt"
)

// Maybe holds a value that the running kernel may not report.
// Absent is distinct from zero.
type Maybe[T any] struct {
	Value T
	Valid bool
}

func Some[T any](v T) Maybe[T] {
	return Maybe[T]{Value: v, Valid: true}
}

// Get returns the value and whether it was present.
func (m Maybe[T]) Get() (T, bool) {
	return m.Value, m.Valid
}

// Or returns the value, or def when absent.
func (m Maybe[T]) Or(def T) T {
	if m.Valid {
		return m.Value
	}
	return def
}

func (m Maybe[T]) String() string {
	if !m.Valid {
		return "-"
	}
	return fmt.Sprint(m.Value)
}

func (m Maybe[T]) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m Maybe[T]) MarshalYAML() (interface{}, error) {
	if !m.Valid {
		return nil, nil
	}
	return m.Value, nil
}
