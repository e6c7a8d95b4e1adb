package models

import "fmt"

// ValidationError reports malformed input: wrong vector dimension,
// out-of-range weight/alpha/limit, bad profile fields.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

// NewValidationError returns a ValidationError with the given message.
func NewValidationError(msg string) error { return &ValidationError{Msg: msg} }

// NotFoundError reports an operation referencing a profile id absent from
// the store where the contract requires existence.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Kind, e.ID) }

// NewNotFoundError returns a NotFoundError for the given entity kind and id.
func NewNotFoundError(kind, id string) error { return &NotFoundError{Kind: kind, ID: id} }

// ServiceError reports an external collaborator failure (embedding service
// unavailable or failed). Propagated, never silently swallowed.
type ServiceError struct {
	Service string
	Err     error
}

func (e *ServiceError) Error() string { return fmt.Sprintf("%s service: %v", e.Service, e.Err) }

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError wraps err as a ServiceError for the named service.
func NewServiceError(service string, err error) error {
	return &ServiceError{Service: service, Err: err}
}
