package domain

import (
	"errors"
	"fmt"
)

// Kind is the category of a DomainError, matching the error taxonomy
// the HTTP boundary maps to status codes.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindProviderTransient  Kind = "provider_transient"
	KindProviderPermanent  Kind = "provider_permanent"
	KindProviderUnavailable Kind = "provider_unavailable"
	KindStoreUnavailable   Kind = "store_unavailable"
	KindTimeout            Kind = "timeout"
	KindInternal           Kind = "internal"
)

// DomainError is a structured error with a Kind, optional cause, and
// field-level detail.
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func New(kind Kind, message string, err error) *DomainError {
	return &DomainError{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *DomainError {
	return New(KindValidation, message, nil)
}

func NotFound(message string) *DomainError {
	return New(KindNotFound, message, nil)
}

func Conflict(message string) *DomainError {
	return New(KindConflict, message, nil)
}

func Internal(message string, err error) *DomainError {
	return New(KindInternal, message, err)
}

func StoreUnavailable(message string, err error) *DomainError {
	return New(KindStoreUnavailable, message, err)
}

func Timeout(message string) *DomainError {
	return New(KindTimeout, message, nil)
}

// Of extracts the Kind of err, or "" if err is not a *DomainError.
func Of(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return Of(err) == kind
}

func DetailsOf(err error) map[string]interface{} {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}
