package cli

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Exit codes
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitCancelled = 130
)

// ErrURLRequired is returned when no URL was given or entered.
var ErrURLRequired = errors.New("URL is required")

// ErrDownloadFailed is returned when the download step reports failure.
var ErrDownloadFailed = errors.New("download failed")

// ExitError carries the exit code of a failed run. The user has already
// seen a message for it.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps the result of a run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitCancelled
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
