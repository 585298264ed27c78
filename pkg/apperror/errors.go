package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error so the HTTP layer can map it to a status code
// without inspecting message text.
type Kind string

const (
	KindAuthenticationFailed Kind = "authentication_failed"
	KindAuthorizationDenied  Kind = "authorization_denied"
	KindNotFound             Kind = "not_found"
	KindValidationFailed     Kind = "validation_failed"
	KindConflict             Kind = "conflict"
	KindUpstreamUnavailable  Kind = "upstream_unavailable"
)

// Error is a structured failure with a stable kind and message.
//
// NotFound and AuthenticationFailed messages are deliberately uniform: a
// record in another tenant reads the same as a missing record, and a wrong
// password reads the same as an unknown email.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an error with the given kind and message
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// AuthenticationFailed signals a missing, invalid or expired credential
func AuthenticationFailed(message string) *Error {
	return New(KindAuthenticationFailed, message)
}

// AuthorizationDenied signals a valid identity with insufficient role
func AuthorizationDenied(message string) *Error {
	return New(KindAuthorizationDenied, message)
}

// NotFound signals a resource that is absent or belongs to another tenant
func NotFound(resource string) *Error {
	return New(KindNotFound, resource+" not found")
}

// ValidationFailed signals malformed input
func ValidationFailed(message string) *Error {
	return New(KindValidationFailed, message)
}

// Conflict signals a duplicate unique key
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// UpstreamUnavailable signals an unreachable or unconfigured collaborator
func UpstreamUnavailable(message string) *Error {
	return New(KindUpstreamUnavailable, message)
}

// KindOf returns the kind of err, or empty string for non-app errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// HTTPStatus maps an error to the HTTP status code the boundary should return
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindAuthenticationFailed:
		return http.StatusUnauthorized
	case KindAuthorizationDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
