package delivery

import (
	"fmt"

	"github.com/pkg/errors"
)

// InternalError marks a defect in the processing pipeline rather than a problem with the inbound call.
type InternalError struct {
	Cause error
}

func (m *InternalError) Error() string {
	return fmt.Sprintf("delivery error: %v", m.Cause)
}

func (m *InternalError) Unwrap() error {
	return m.Cause
}

// NewInternalError returns an InternalError with a formatted cause.
func NewInternalError(format string, args ...any) error {
	return &InternalError{Cause: errors.Errorf(format, args...)}
}
