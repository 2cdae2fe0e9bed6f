package errs

import (
	"errors"
	"fmt"
)

// Domain sentinel errors, mapped to HTTP codes in handlers.
var (
	// Validation (media upload).
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds maximum size")

	// Device (capture, geolocation).
	ErrPermissionDenied       = errors.New("device permission denied")
	ErrGeolocationUnavailable = errors.New("geolocation unavailable")
	ErrLocationTimeout        = errors.New("geolocation request timed out")
	ErrDeviceUnavailable      = errors.New("capture device unavailable")

	// Auth.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrSessionExpired       = errors.New("session expired")
	ErrNotAuthenticated     = errors.New("not authenticated")

	// Streaming.
	ErrAlreadyLive = errors.New("stream already live")
	ErrNotLive     = errors.New("no live stream")

	// Transport.
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrSocketClosed       = errors.New("signaling socket closed")
)

// HTTPError is a non-2xx backend response. The status code is part of the
// message so callers that only log the error still see it.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status %d", e.Status)
	}
	return fmt.Sprintf("http error: status %d: %s", e.Status, e.Body)
}

// IsStatus reports whether err is an HTTPError with the given status code.
func IsStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == status
}
