package survey

import (
	"errors"
	"fmt"
)

var (
	ErrInvariant = errors.New("survey invariant violated")
)

// FillError records a host failure on a single element operation.
type FillError struct {
	Topic     string
	Kind      Kind
	Operation string
	Cause     error
}

func (e *FillError) Error() string {
	if e.Topic == "" {
		return fmt.Sprintf("%s failed: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("[topic %s, %s] %s failed: %v", e.Topic, e.Kind, e.Operation, e.Cause)
}

func (e *FillError) Unwrap() error {
	return e.Cause
}
