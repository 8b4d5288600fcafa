package models

import (
	"encoding/json"
	"net/http"
)

// NormalizedResponse is the uniform result of a gateway lookup. A success
// carries the upstream body untouched; a failure carries a status, a message
// and optional diagnostic details.
type NormalizedResponse struct {
	StatusCode int
	Body       json.RawMessage
	Error      string
	Details    any
}

// ErrorBody is the JSON shape written for failures
type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// Success wraps an upstream body
func Success(body []byte) NormalizedResponse {
	return NormalizedResponse{StatusCode: http.StatusOK, Body: body}
}

// Failure builds an error response
func Failure(status int, message string) NormalizedResponse {
	return NormalizedResponse{StatusCode: status, Error: message}
}

// FailureWithDetails builds an error response carrying extra diagnostics
func FailureWithDetails(status int, message string, details any) NormalizedResponse {
	return NormalizedResponse{StatusCode: status, Error: message, Details: details}
}

// OK reports whether the response is a success
func (r NormalizedResponse) OK() bool {
	return r.Error == "" && r.StatusCode == http.StatusOK
}

// JSON returns the bytes to send to the caller
func (r NormalizedResponse) JSON() ([]byte, error) {
	if r.OK() {
		return r.Body, nil
	}
	return json.Marshal(ErrorBody{Error: r.Error, Details: r.Details})
}
