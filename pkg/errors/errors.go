package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorType classifies domain errors for programmatic handling
type ErrorType string

const (
	// ErrorTypeValidation means invalid input or configuration (no retry)
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeNotFound means a referenced entity does not exist
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeConflict means the operation conflicts with existing state
	ErrorTypeConflict ErrorType = "conflict"

	// ErrorTypeIO means a filesystem or archive operation failed
	ErrorTypeIO ErrorType = "io"

	// ErrorTypeProcess means a process lifecycle operation failed
	ErrorTypeProcess ErrorType = "process"

	// ErrorTypeInternal means an invariant was broken inside this module
	ErrorTypeInternal ErrorType = "internal"
)

// DomainError is the error type returned by all packages in this module.
// Context carries key/value diagnostic details attached via WithContext.
type DomainError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]string
}

func newDomainError(errorType ErrorType, message string, cause error) *DomainError {
	return &DomainError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]string),
	}
}

func (e *DomainError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(pairs, ", "))
		sb.WriteString(")")
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair to the error and returns the same
// error, so calls can be chained at the return site.
func (e *DomainError) WithContext(key, value string) *DomainError {
	e.Context[key] = value
	return e
}

func NewValidationError(message string, cause error) *DomainError {
	return newDomainError(ErrorTypeValidation, message, cause)
}

func NewNotFoundError(message string, cause error) *DomainError {
	return newDomainError(ErrorTypeNotFound, message, cause)
}

func NewConflictError(message string, cause error) *DomainError {
	return newDomainError(ErrorTypeConflict, message, cause)
}

func NewIOError(message string, cause error) *DomainError {
	return newDomainError(ErrorTypeIO, message, cause)
}

func NewProcessError(message string, cause error) *DomainError {
	return newDomainError(ErrorTypeProcess, message, cause)
}

func NewInternalError(message string, cause error) *DomainError {
	return newDomainError(ErrorTypeInternal, message, cause)
}

func isErrorType(err error, errorType ErrorType) bool {
	domainErr, ok := err.(*DomainError)
	return ok && domainErr.Type == errorType
}

func IsValidationError(err error) bool { return isErrorType(err, ErrorTypeValidation) }
func IsNotFoundError(err error) bool   { return isErrorType(err, ErrorTypeNotFound) }
func IsConflictError(err error) bool   { return isErrorType(err, ErrorTypeConflict) }
func IsIOError(err error) bool         { return isErrorType(err, ErrorTypeIO) }
func IsProcessError(err error) bool    { return isErrorType(err, ErrorTypeProcess) }
func IsInternalError(err error) bool   { return isErrorType(err, ErrorTypeInternal) }
