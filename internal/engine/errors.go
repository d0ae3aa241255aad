package engine

import (
	"fmt"
	"strings"
)

// NotFoundError indicates the request referenced a system type that is not
// in the catalog. This is a 404-class condition: the request shape was
// well-formed but the referenced system does not exist.
type NotFoundError struct {
	SystemType string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("System type '%s' not found", e.SystemType)
}

// RangeViolation describes a single parameter outside the resolved system's
// operating envelope, carrying the violated bound so the caller can
// self-correct without re-querying ranges.
type RangeViolation struct {
	Field string
	Value float64
	Min   float64
	Max   float64
	Unit  string
}

func (v RangeViolation) String() string {
	return fmt.Sprintf("%s %.1f %s outside allowed range [%.1f, %.1f]", v.Field, v.Value, v.Unit, v.Min, v.Max)
}

// RangeError aggregates every operating-envelope violation found for a
// request. Domain error, 400-class, distinct from shape validation.
type RangeError struct {
	SystemType string
	Violations []RangeViolation
}

func (e *RangeError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("parameters out of range for system %s: %s", e.SystemType, strings.Join(parts, "; "))
}

// SettingsError indicates invalid per-lamp settings, such as a lamp index
// outside the system's lamp count.
type SettingsError struct {
	Msg string
}

func (e *SettingsError) Error() string {
	return e.Msg
}

// CalculationError indicates the dose-calculation collaborator failed or
// produced an invalid result. 400-class.
type CalculationError struct {
	Reason string
	Err    error
}

func (e *CalculationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}
