package services

import (
	"fmt"
)

// ValidationError reports a bad input record. Batch callers collect these
// per row and keep going; store errors abort instead.
type ValidationError struct {
	Row     int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
