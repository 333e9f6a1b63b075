package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is raised synchronously by builder setters when a
	// caller supplies a null or empty value for a field that requires one.
	ErrInvalidArgument = NewError("INVALID_ARGUMENT", "invalid argument")

	// ErrMalformedPayload is raised when a stored payload field cannot be
	// decoded into its expected type on read-back.
	ErrMalformedPayload = NewError("MALFORMED_PAYLOAD", "malformed payload")

	// ErrTransport covers I/O failures before a response is obtained:
	// connection refused, malformed URL, stream failure.
	ErrTransport = NewError("TRANSPORT", "transport failure")
)

type RetryableError interface {
	error
	IsRetryable() bool
}

type FatalError interface {
	error
	IsFatal() bool
}

type Error struct {
	Code      string
	Message   string
	Details   map[string]interface{}
	Cause     error
	retryable *bool
}

func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

func (e *Error) Error() string {
	msg := e.Message
	if field, ok := e.Details["field"].(string); ok && field != "" {
		msg = fmt.Sprintf("%s: %s", msg, field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

func (e *Error) IsRetryable() bool {
	if e.retryable != nil {
		return *e.retryable
	}
	if e.Cause != nil {
		var retryableErr RetryableError
		if errors.As(e.Cause, &retryableErr) {
			return retryableErr.IsRetryable()
		}
		var fatalErr FatalError
		if errors.As(e.Cause, &fatalErr) {
			return !fatalErr.IsFatal()
		}
	}
	return e.Code != ErrInvalidArgument.Code && e.Code != ErrMalformedPayload.Code
}

func (e *Error) IsFatal() bool {
	return !e.IsRetryable()
}

func (e *Error) WithCause(cause error) *Error {
	err := *e
	err.Cause = cause
	return &err
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	err := *e
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	err.Details = details
	return &err
}

// WithField tags the error with the name of the offending field.
func (e *Error) WithField(field string) *Error {
	return e.WithDetail("field", field)
}

func (e *Error) AsRetryable() *Error {
	err := *e
	retryable := true
	err.retryable = &retryable
	return &err
}

func (e *Error) AsFatal() *Error {
	err := *e
	retryable := false
	err.retryable = &retryable
	return &err
}

func Wrap(err error, appErr *Error) *Error {
	if err == nil {
		return nil
	}
	return appErr.WithCause(err)
}

func IsInvalidArgument(err error) bool {
	return hasCode(err, ErrInvalidArgument.Code)
}

func IsMalformedPayload(err error) bool {
	return hasCode(err, ErrMalformedPayload.Code)
}

func IsTransport(err error) bool {
	return hasCode(err, ErrTransport.Code)
}

func hasCode(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
