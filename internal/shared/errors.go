package shared

import (
	"errors"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
)

var (
	// ErrNotFound indicates the remote API has no such resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage converts an error into text safe to render to end users.
// Remote API errors already carry human-readable messages; anything else
// collapses to a generic retry prompt so internals never leak into pages.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, httpx.ErrNotFound), errors.Is(err, ErrNotFound):
		return "The requested record could not be found."
	case errors.Is(err, httpx.ErrUnauthorized):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, httpx.ErrValidation):
		return err.Error()
	case errors.Is(err, httpx.ErrRemote):
		return err.Error()
	default:
		return "Something went wrong. Please try again."
	}
}
