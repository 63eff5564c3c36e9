// Package apperr holds the error taxonomy shared by the menu and order
// services. Handlers translate these into HTTP responses with HTTPStatus.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports malformed or missing caller input. It is never
// retried and always means nothing was written.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NotFoundError reports a referenced restaurant, category, item or order
// that does not exist in the caller's scope.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ConflictError reports a write that would duplicate a unique value, such
// as a second restaurant for the same owner email.
type ConflictError struct {
	Resource string
	Message  string
}

func (e ConflictError) Error() string {
	return e.Message
}

// DependencyError wraps a failed persistence, blob store or broker call.
type DependencyError struct {
	Op  string
	Err error
}

func (e DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e DependencyError) Unwrap() error { return e.Err }

// ConsistencyError reports that the global order registry and the
// per-restaurant order index could not be brought into agreement.
type ConsistencyError struct {
	OrderNumber string
	Op          string
	Err         error
}

func (e ConsistencyError) Error() string {
	return fmt.Sprintf("order %s: %s: %v", e.OrderNumber, e.Op, e.Err)
}

func (e ConsistencyError) Unwrap() error { return e.Err }

func Validation(field, message string) error {
	return ValidationError{Field: field, Message: message}
}

func NotFound(resource, id string) error {
	return NotFoundError{Resource: resource, ID: id}
}

func Conflict(resource, message string) error {
	return ConflictError{Resource: resource, Message: message}
}

func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	return DependencyError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

// HTTPStatus maps an error from the service layer to a response status.
func HTTPStatus(err error) int {
	var (
		validationErr  ValidationError
		notFoundErr    NotFoundError
		conflictErr    ConflictError
		consistencyErr ConsistencyError
		dependencyErr  DependencyError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	case errors.As(err, &consistencyErr):
		return http.StatusInternalServerError
	case errors.As(err, &dependencyErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text safe to show to a caller. Internal failures
// collapse into a generic message so storage details never leak.
func PublicMessage(err error) string {
	var (
		validationErr ValidationError
		notFoundErr   NotFoundError
		conflictErr   ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &notFoundErr):
		return notFoundErr.Error()
	case errors.As(err, &conflictErr):
		return conflictErr.Error()
	default:
		return "internal server error"
	}
}
