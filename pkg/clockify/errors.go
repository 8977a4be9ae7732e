package clockify

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNoCredential = errors.New("clockify API key is not set")
var ErrUnauthenticated = errors.New("clockify rejected the API key")

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Clockify API Error (%d - Code: %d) for endpoint %s: %s", e.StatusCode, e.Code, e.Endpoint, e.Message)
}

func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func (e *APIError) Unwrap() error {
	if e.IsAuthError() {
		return ErrUnauthenticated
	}
	return nil
}

// IsAuthError reports whether err means the user has to provide a (new) API key.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrNoCredential)
}

// HTTPStatus maps a fetch failure to the status the API answers with.
func HTTPStatus(err error) int {
	if IsAuthError(err) {
		return http.StatusUnauthorized
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode == http.StatusNotFound {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
