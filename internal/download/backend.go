package download

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/ytget/ytpick/internal/config"
)

// NewBackend creates the backend registered under name.
func NewBackend(name string, cfg *config.Config, log zerolog.Logger) (Backend, error) {
	switch name {
	case config.BackendYtdlp, "":
		return NewYtdlpBackend(cfg, log), nil
	case config.BackendYtget:
		return NewYtgetBackend(cfg, log), nil
	case config.BackendKkdai:
		return NewKkdaiBackend(cfg, log), nil
	}
	return nil, errors.Wrapf(ErrUnknownBackend, "%q", name)
}
