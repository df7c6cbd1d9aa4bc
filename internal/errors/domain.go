package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies failures crossing the service boundary.
type Kind string

const (
	// KindValidation is missing or invalid user input, caught before any persistence call.
	KindValidation Kind = "validation"
	// KindNotFound is a referenced entity (user by email, task by id) that does not exist.
	KindNotFound Kind = "not_found"
	// KindTransient is a persistence or network failure; the operation is abandoned, not retried.
	KindTransient Kind = "transient"
	// KindConflict is a detected lost update. Nothing raises it yet.
	KindConflict Kind = "conflict"
)

// DomainError carries a Kind, a user-facing message and the underlying cause.
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Validation creates a KindValidation error
func Validation(message string) error {
	return &DomainError{Kind: KindValidation, Message: message}
}

// NotFoundError creates a KindNotFound error
func NotFoundError(message string) error {
	return &DomainError{Kind: KindNotFound, Message: message}
}

// Transient wraps a persistence failure
func Transient(message string, err error) error {
	return &DomainError{Kind: KindTransient, Message: message, Err: err}
}

// ConflictError creates a KindConflict error
func ConflictError(message string) error {
	return &DomainError{Kind: KindConflict, Message: message}
}

// KindOf returns the Kind of the first DomainError in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given Kind
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// RespondWithDomainError converts err into a single API error response.
// Errors without a Kind are treated as internal failures and their detail is not exposed.
func RespondWithDomainError(c *gin.Context, err error) {
	RespondWithDomainErrorDetails(c, err, nil)
}

// RespondWithDomainErrorDetails is RespondWithDomainError with a details payload,
// such as the state the client should fall back to.
func RespondWithDomainErrorDetails(c *gin.Context, err error, details interface{}) {
	var de *DomainError
	if !stderrors.As(err, &de) {
		InternalError(c, "")
		return
	}

	status, code := statusFor(de.Kind)
	RespondWithError(c, status, NewAPIErrorWithDetails(code, de.Message, details))
}

func statusFor(kind Kind) (int, string) {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest, ErrCodeInvalidInput
	case KindNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case KindConflict:
		return http.StatusConflict, ErrCodeConflict
	case KindTransient:
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}
