package places

import (
	"errors"
	"fmt"
)

// Sentinel errors for each non-OK status the web service reports.
var (
	ErrZeroResults    = errors.New("places: no results returned")
	ErrQuotaExceeded  = errors.New("places: query quota exceeded")
	ErrRequestDenied  = errors.New("places: request denied")
	ErrInvalidRequest = errors.New("places: invalid request, possibly missing parameters")
	ErrNotFound       = errors.New("places: place not found")
	ErrUnknown        = errors.New("places: unknown service error")

	// ErrLoadFailed means the capability bootstrap could not be fetched.
	ErrLoadFailed = errors.New("places: failed to load maps capability")
)

// statusError maps a service status string to its sentinel error, attaching
// the service-provided message when there is one.
func statusError(status, message string) error {
	var err error
	switch status {
	case "ZERO_RESULTS":
		err = ErrZeroResults
	case "OVER_QUERY_LIMIT":
		err = ErrQuotaExceeded
	case "REQUEST_DENIED":
		err = ErrRequestDenied
	case "INVALID_REQUEST":
		err = ErrInvalidRequest
	case "NOT_FOUND":
		err = ErrNotFound
	default:
		err = ErrUnknown
	}
	if message != "" {
		return fmt.Errorf("%w: %s", err, message)
	}
	return err
}
