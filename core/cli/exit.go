package cli

import (
	"errors"

	"github.com/emenda-labs/factdiff/core/diff"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitDifferences    = 1
	ExitError          = 2
	ExitSchemaMismatch = 3
)

// ErrDifferences is returned by a run function when the diff succeeded and found
// changes. It is a status, not a failure, and is not printed.
var ErrDifferences = errors.New("differences found")

// ExitCode maps the outcome of a command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrDifferences):
		return ExitDifferences
	case errors.Is(err, diff.ErrSchemaMismatch):
		return ExitSchemaMismatch
	default:
		return ExitError
	}
}
