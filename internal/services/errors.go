package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nimasrn/record-shop/internal/repository"
	"github.com/nimasrn/record-shop/pkg/logger"
)

// Error kinds. Every error returned by a service matches exactly one of
// them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrReference  = errors.New("referenced entity not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// Error carries a kind and a short message that is safe to show to clients.
type Error struct {
	Kind    error
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.cause}
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(err error) error {
	return &Error{Kind: ErrValidation, Message: err.Error()}
}

func notFound(entity string, id int64) error {
	return newError(ErrNotFound, "%s with id %d does not exist", entity, id)
}

func referenceNotFound(entity string, id int64) error {
	return newError(ErrReference, "No %s found with id %d", entity, id)
}

// mapStoreError turns a repository error into the service taxonomy. entity
// is the display name used in messages. Errors that already carry a kind
// pass through untouched.
func mapStoreError(entity string, id int64, err error) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound(entity, id)
	case errors.Is(err, repository.ErrDuplicate):
		e := newError(ErrConflict, "A %s with this information already exists.", strings.ToLower(entity))
		e.cause = err
		return e
	case errors.Is(err, repository.ErrForeignKey):
		e := newError(ErrReference, "A referenced entity does not exist.")
		e.cause = err
		return e
	case errors.Is(err, repository.ErrNotNull):
		e := newError(ErrValidation, "A required field is missing.")
		e.cause = err
		return e
	}

	logger.Error("unexpected store error", "entity", entity, "id", id, "error", err)
	e := newError(ErrInternal, "An unexpected error occurred.")
	e.cause = err
	return e
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
