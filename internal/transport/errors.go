package transport

import (
	"encoding/json"
	"fmt"
)

// DomainError is an enveloped response whose code is not 200: the transport
// call succeeded but the operation was rejected by the backend.
type DomainError struct {
	Code    int
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("request rejected (code %d): %s", e.Code, e.Message)
}

// HTTPError is a non-2xx HTTP status other than the centrally-handled
// 401/403 pair. No session state changes on this path.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// serverMessage extracts the best human-readable message from an error
// body. Preference order: envelope "message", bare "error", fallback.
func serverMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fallback
}
