package client

import (
	"errors"
	"strings"

	"google.golang.org/api/googleapi"
)

// APIError wraps a failed YouTube API request with the endpoint it was made against.
type APIError struct {
	Op  string // endpoint label, e.g. "search"
	Err error
}

func (e *APIError) Error() string {
	return "youtube " + e.Op + ": " + e.Err.Error()
}

func (e *APIError) Unwrap() error { return e.Err }

// Reason extracts a short human-readable reason from an API failure. For Google API
// errors this is the first error item's reason (e.g. "commentsDisabled", "quotaExceeded"),
// then the error message. Anything else falls back to the raw error text.
func Reason(err error) string {
	if err == nil {
		return ""
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if len(gerr.Errors) > 0 && gerr.Errors[0].Reason != "" {
			return gerr.Errors[0].Reason
		}
		if msg := strings.TrimSpace(gerr.Message); msg != "" {
			return msg
		}
	}
	return err.Error()
}
