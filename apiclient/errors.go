package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jrsteele09/dailymood/dailymodel"
	apperrors "github.com/jrsteele09/dailymood/internal/errors"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Is maps status codes onto the shared sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case apperrors.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case apperrors.ErrNotFound:
		return e.Status == http.StatusNotFound
	case apperrors.ErrConflict:
		return e.Status == http.StatusConflict
	case apperrors.ErrServer:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// RefreshError is returned in place of the original 401 when the refresh
// that should have recovered it failed.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("%v: %v", apperrors.ErrRefreshFailed, e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

func (e *RefreshError) Is(target error) bool {
	return target == apperrors.ErrRefreshFailed
}

// StatusCode extracts the HTTP status from an error chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if apperrors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{Method: method, Path: path, Status: status}
	var eb dailymodel.ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Message = eb.Text()
	}
	return apiErr
}
