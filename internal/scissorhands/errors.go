package scissorhands

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks failures where no response arrived at all
	// (connection refused, timeout). The caller shows a generic
	// retry-later message and must not retry automatically.
	ErrTransport = errors.New("scissorhands: transport failure")

	// ErrInvalidResponse marks responses that arrived but could not be
	// decoded.
	ErrInvalidResponse = errors.New("scissorhands: invalid response")
)

// APIError is a non-2xx response carrying the server-supplied message.
// The message is surfaced to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("scissorhands: api error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("scissorhands: api error (status %d): %s", e.StatusCode, e.Message)
}

// AsAPIError unwraps err into an *APIError if there is one in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
