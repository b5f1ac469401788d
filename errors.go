package apidance

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RateLimitError is returned when the proxy keeps rate-limiting a request
// after the retry budget is spent.
type RateLimitError struct {
	Endpoint string
	Attempts int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited after %d attempts", e.Endpoint, e.Attempts)
}

// ConnectionError is returned when the transport keeps failing after the
// retry budget is spent.
type ConnectionError struct {
	Endpoint string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: connection failed after %d attempts: %v", e.Endpoint, e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// UpstreamError is a well-formed failure reported by the proxy or by
// Twitter behind it. Never retried.
type UpstreamError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream error (HTTP %d): %s", e.Endpoint, e.Status, e.Message)
}

// MappingError is returned when a successful response is missing a field
// required to build a record.
type MappingError struct {
	Kind  string // "tweet" or "user"
	Field string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map %s: missing required field %q", e.Kind, e.Field)
}

// ConfigError is returned when a credential required for an operation
// cannot be resolved.
type ConfigError struct {
	Name string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s is not set", e.Name)
}

// isLocalRateLimit reports whether the body is the proxy's soft
// rate-limit marker, sent with HTTP 200.
func isLocalRateLimit(body []byte) bool {
	return bytes.Equal(bytes.TrimSpace(body), []byte("local_rate_limited"))
}

// upstreamMessage extracts an error message from a response body.
// The proxy reports its own failures as {"error": "..."}; Twitter errors
// pass through as an "errors" array. Returns "" if the body carries
// neither.
func upstreamMessage(body []byte) string {
	var probe struct {
		Error  string `json:"error"`
		Msg    string `json:"msg"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &probe) != nil {
		return ""
	}
	switch {
	case probe.Error != "":
		return probe.Error
	case len(probe.Errors) > 0 && probe.Errors[0].Message != "":
		return probe.Errors[0].Message
	case probe.Msg != "":
		return probe.Msg
	}
	return ""
}
