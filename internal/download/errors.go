package download

import (
	"github.com/cockroachdb/errors"
)

// ErrUnknownBackend is returned by NewBackend for an unregistered name.
var ErrUnknownBackend = errors.New("unknown backend")

// ProbeError reports a failed metadata query.
type ProbeError struct {
	URL string
	Err error
}

func (e *ProbeError) Error() string {
	return "failed to fetch video info: " + e.Err.Error()
}

func (e *ProbeError) Unwrap() error { return e.Err }
