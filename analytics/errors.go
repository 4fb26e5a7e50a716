package analytics

import (
	"fmt"
	"time"
)

// ParseError - непустая метка времени не разбирается как ISO-8601.
type ParseError struct {
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid ISO-8601 date/time: %q", e.Value)
}

// InvalidRangeError - начало окна позже конца.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("start (%s) must be before or equal to end (%s)", FormatInstant(e.Start), FormatInstant(e.End))
}

// InvalidArgumentError - недопустимый аргумент запроса (limit, days, type).
type InvalidArgumentError struct {
	Name   string
	Value  any
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Name, e.Value, e.Reason)
}

func requirePositive(name string, v int) error {
	if v <= 0 {
		return &InvalidArgumentError{Name: name, Value: v, Reason: "must be a positive integer"}
	}
	return nil
}
