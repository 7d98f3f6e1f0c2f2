package facultypedia

import "fmt"

// Error statuses for failures that never reached the backend. Transport
// errors and timeouts are folded into the same error shape as HTTP failures
// so callers branch on status codes only, never on error types.
const (
	StatusNetwork = 0
	StatusTimeout = 408
)

// APIError is the single error shape returned by the backend client.
type APIError struct {
	Status  int
	Message string
	Payload any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == 401
}
