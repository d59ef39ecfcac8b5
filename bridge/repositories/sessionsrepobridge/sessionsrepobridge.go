// Package sessionsrepobridge exposes the session repository over HTTP.
package sessionsrepobridge

import (
	"errors"

	"github.com/jrazmi/sessions/bridge/scaffolding/errs"
	"github.com/jrazmi/sessions/core/repositories"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo"
	"github.com/jrazmi/sessions/sdk/validation"
)

type bridge struct {
	sessionsRepository *sessionsrepo.Repository
}

func newBridge(sessionsRepository *sessionsrepo.Repository) *bridge {
	return &bridge{
		sessionsRepository: sessionsRepository,
	}
}

// toAppError maps repository errors onto client error codes.
func toAppError(err error) *errs.Error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return errs.New(errs.NotFound, err)
	case errors.Is(err, repositories.ErrDuplicate):
		return errs.New(errs.AlreadyExists, err)
	case errors.Is(err, sessionsrepo.ErrImmutableColumn):
		return errs.New(errs.FailedPrecondition, err)
	case errors.Is(err, sessionsrepo.ErrInvalidSession), errors.Is(err, validation.ErrInvalid):
		return errs.New(errs.InvalidArgument, err)
	case errors.Is(err, repositories.ErrOperationNotSupported):
		return errs.New(errs.InvalidArgument, err)
	default:
		return errs.New(errs.InternalOnlyLog, err)
	}
}
