package errors

import (
	"errors"
	"net/http"

	"sampleapp/internal/validation"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrMicropostNotFound is returned when a micropost is not found or not
	// owned by the caller.
	ErrMicropostNotFound = errors.New("micropost not found")
	// ErrRelationshipNotFound is returned when a follow edge is not found.
	ErrRelationshipNotFound = errors.New("relationship not found")
	// ErrInvalidCredentials is returned for any failed login. It does not
	// reveal whether the email exists.
	ErrInvalidCredentials = errors.New("invalid email/password combination")
	// ErrInvalidToken is returned when an access or remember token is invalid,
	// expired or revoked.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrForbidden is returned when the current user may not act on a resource.
	ErrForbidden = errors.New("forbidden")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     []validation.FieldError
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		httpErr := NewHTTPError(http.StatusUnprocessableEntity, verrs.Summary(), "VALIDATION_FAILED")
		httpErr.Fields = verrs
		return httpErr
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrMicropostNotFound):
		return NewHTTPError(http.StatusNotFound, ErrMicropostNotFound.Error(), "MICROPOST_NOT_FOUND")
	case errors.Is(err, ErrRelationshipNotFound):
		return NewHTTPError(http.StatusNotFound, ErrRelationshipNotFound.Error(), "RELATIONSHIP_NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
