package api

import "github.com/google/uuid"

// NewRequestID returns a random identifier suitable for RequestEvent.RequestID
// when the caller has no natural label for the request.
func NewRequestID() string {
	return uuid.NewString()
}
