package diff

import (
	"errors"
	"fmt"
)

// ErrSchemaMismatch is returned when two documents differ in structural shape, so
// that comparing their contents is ill-defined.
var ErrSchemaMismatch = errors.New("schema mismatch")

// SchemaMismatchError names the part of the document whose shape disagrees.
type SchemaMismatchError struct {
	Field  string
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch at %s: %s", e.Field, e.Reason)
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}
