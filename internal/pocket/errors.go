package pocket

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error kinds, matched with errors.Is against an *APIError.
var (
	ErrInvalidQuery = errors.New("invalid request")
	ErrAuth         = errors.New("authentication failed")
	ErrForbidden    = errors.New("access denied or rate limited")
	ErrMaintenance  = errors.New("service under maintenance")
	ErrService      = errors.New("service error")
)

// APIError is returned for any HTTP status >= 400.
type APIError struct {
	StatusCode  int
	Kind        error
	Description string
	// XError and XErrorCode carry the X-Error and X-Error-Code response headers.
	XError     string
	XErrorCode string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Pocket API error %d", e.StatusCode)
	if e.Description != "" {
		b.WriteString(": ")
		b.WriteString(e.Description)
	}
	if e.XError != "" {
		b.WriteString(" (")
		b.WriteString(e.XError)
		if e.XErrorCode != "" {
			b.WriteString(", code ")
			b.WriteString(e.XErrorCode)
		}
		b.WriteString(")")
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}

func newAPIError(status int, h http.Header) *APIError {
	e := &APIError{
		StatusCode: status,
		XError:     h.Get("X-Error"),
		XErrorCode: h.Get("X-Error-Code"),
	}
	switch status {
	case http.StatusBadRequest:
		e.Kind = ErrInvalidQuery
		e.Description = "Invalid request, please make sure you follow the documentation for proper syntax"
	case http.StatusUnauthorized:
		e.Kind = ErrAuth
		e.Description = "Problem authenticating the user"
	case http.StatusForbidden:
		e.Kind = ErrForbidden
		e.Description = "User was authenticated, but access denied due to lack of permission or rate limiting"
	case http.StatusServiceUnavailable:
		e.Kind = ErrMaintenance
		e.Description = "Pocket's sync server is down for scheduled maintenance"
	default:
		e.Kind = ErrService
		e.Description = http.StatusText(status)
	}
	return e
}

func ensureOK(status int, h http.Header) error {
	if status >= 400 {
		return newAPIError(status, h)
	}
	return nil
}
