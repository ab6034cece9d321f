package git

import (
	"errors"
	"fmt"
)

var (
	ErrNotARepository        = errors.New("not a git repository")
	ErrNoUpstream            = errors.New("no upstream tracking reference")
	ErrDivergenceUnavailable = errors.New("no common ancestor between refs")
	ErrInvalidRange          = errors.New("invalid commit range")
	ErrCommitNotFound        = errors.New("commit not found")
)

// ExecError carries the exit code and stderr of a failed git invocation so
// callers can log raw detail at the boundary.
type ExecError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("git %v failed with exit code %d: %s", e.Args, e.ExitCode, e.Stderr)
}
