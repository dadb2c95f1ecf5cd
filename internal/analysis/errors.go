package analysis

import (
	"errors"
	"fmt"
)

// SchemaError reports session data whose shape does not match the expected
// trial_results schema (missing column, unparsable cell). It is fatal for the
// affected session only: within a batch the session's row is flagged, not
// dropped, and the remaining sessions proceed.
type SchemaError struct {
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("schema mismatch on %q", e.Field)
	}
	return fmt.Sprintf("schema mismatch on %q: %v", e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsSchemaError reports whether err is (or wraps) a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
