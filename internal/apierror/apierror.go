// Package apierror provides the standardized error types returned by the API.
// All errors surfaced to clients go through this package to keep responses
// consistent and to prevent leaking internals (stack traces, SQL errors, etc.).
package apierror

import "net/http"

// Kind classifies a business error so handlers can map it to an HTTP status.
type Kind int

const (
	KindValidation Kind = iota + 1 // malformed or semantically invalid input
	KindConflict                   // state invariant violation
	KindNotFound                   // entity absent or outside the caller's store
	KindInternal                   // unexpected storage or infrastructure failure
)

// Error is the single error type produced by the service layer.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func Internal(msg string) *Error   { return &Error{Kind: KindInternal, Message: msg} }

// Status maps an error to its HTTP status code. Unknown error types are
// treated as internal failures.
func Status(err error) int {
	e, ok := err.(*Error)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Message string `json:"message"`
}

func New(msg string) *APIError {
	return &APIError{Message: msg}
}

// ValidationError wraps field-level issues for structural validation failures.
type ValidationError struct {
	Message string            `json:"message"`
	Issues  map[string]string `json:"issues"`
}

func NewValidation(issues map[string]string) *ValidationError {
	return &ValidationError{Message: "Erro de validação", Issues: issues}
}
