package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"sort"
)

// Kind classifies a failure for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindTokenExpired
	KindTokenInvalid
	KindForbidden
	KindNotFound
	KindValidation
	KindTooManyRequests
	KindServiceUnavailable
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated, KindTokenExpired, KindTokenInvalid:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the error vocabulary understood by the error router.
type APIError struct {
	Kind    Kind
	Message string
	Errors  map[string][]string
	cause   error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// Is matches any APIError of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of its message.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Status returns the HTTP status code for the error.
func (e *APIError) Status() int {
	return e.Kind.Status()
}

// Body returns the JSON envelope for the error.
func (e *APIError) Body() map[string]interface{} {
	body := map[string]interface{}{"message": e.Message}
	if e.Kind == KindValidation {
		body["errors"] = e.Errors
	}
	return body
}

// New creates an APIError.
func New(kind Kind, message string) *APIError {
	return &APIError{Kind: kind, Message: message}
}

// Predefined errors
var (
	ErrUnauthenticated    = New(KindUnauthenticated, "Unauthenticated")
	ErrTokenExpired       = New(KindTokenExpired, "Token expired")
	ErrTokenInvalid       = New(KindTokenInvalid, "Token invalid")
	ErrForbidden          = New(KindForbidden, "Forbidden")
	ErrNotFound           = New(KindNotFound, "Not Found")
	ErrValidation         = New(KindValidation, "The given data was invalid.")
	ErrTooManyRequests    = New(KindTooManyRequests, "Too Many Attempts.")
	ErrServiceUnavailable = New(KindServiceUnavailable, "Service temporarily unavailable")
	ErrInternal           = New(KindInternal, "Server error")
)

// NotFound returns a not-found error with a resource specific message.
func NotFound(message string) *APIError {
	return New(KindNotFound, message)
}

// Unauthorized returns an unauthenticated error with a specific message.
func Unauthorized(message string) *APIError {
	return New(KindUnauthenticated, message)
}

// ServiceUnavailable returns a 503 error with a specific message.
func ServiceUnavailable(message string) *APIError {
	return New(KindServiceUnavailable, message)
}

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(cause error) *APIError {
	return &APIError{Kind: KindInternal, Message: ErrInternal.Message, cause: cause}
}

// Validation builds a validation error from per-field messages. The summary
// message is the first failure followed by the count of the remaining ones.
func Validation(fields map[string][]string) *APIError {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return ValidationInOrder(keys, fields)
}

// ValidationInOrder is Validation with an explicit field order for the
// summary message.
func ValidationInOrder(order []string, fields map[string][]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: summarize(order, fields),
		Errors:  fields,
	}
}

// ValidationField builds a validation error for a single field.
func ValidationField(field, message string) *APIError {
	return Validation(map[string][]string{field: {message}})
}

func summarize(order []string, fields map[string][]string) string {
	total := 0
	for _, msgs := range fields {
		total += len(msgs)
	}
	if total == 0 {
		return ErrValidation.Message
	}

	var first string
	for _, k := range order {
		if len(fields[k]) > 0 {
			first = fields[k][0]
			break
		}
	}

	switch remaining := total - 1; remaining {
	case 0:
		return first
	case 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, remaining)
	}
}

// Classify converts any error into an APIError. Errors outside the taxonomy
// become internal errors.
func Classify(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if goerrors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}
