package replica

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrShutdown is returned by Load and Start after Shutdown.
var ErrShutdown = errors.New("replica: manager shut down")

// InvalidDirectoryError reports a replica directory that is missing or not
// a directory.
type InvalidDirectoryError struct {
	Dir string
	Err error
}

func (e *InvalidDirectoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("replica: invalid directory %s: %v", e.Dir, e.Err)
	}
	return fmt.Sprintf("replica: invalid directory %s", e.Dir)
}

func (e *InvalidDirectoryError) Unwrap() error { return e.Err }

// ValidationError reports a file that is not a usable database file.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("replica: %s rejected: %s", e.Path, e.Reason)
}
