package common

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// --------------------------------------------------------------------------
// Error envelope
// --------------------------------------------------------------------------

// ApiError is the body of every failed request: {"error": {"code": ..., "message": ...}}.
type ApiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface so clients can return decoded envelopes directly.
func (e *ApiError) Error() string {
	return e.Message
}

// Status returns the HTTP status belonging to the error code.
func (e *ApiError) Status() int {
	if e.Code < 0 {
		return -e.Code
	}
	return http.StatusInternalServerError
}

// ErrorEnvelope wraps an ApiError under the "error" key.
type ErrorEnvelope struct {
	Error *ApiError `json:"error"`
}

// Canonical errors. Messages are fixed, internal causes are never exposed.
var (
	ErrNotFound = &ApiError{Code: -http.StatusNotFound, Message: "not found"}
	ErrInternal = &ApiError{Code: -http.StatusInternalServerError, Message: "internal server error"}
)

// --------------------------------------------------------------------------
// Success bodies
// --------------------------------------------------------------------------

// DatabaseInfo describes the active store on the index route.
type DatabaseInfo struct {
	Name string `json:"name"`
}

// IndexResponse is returned by GET /.
type IndexResponse struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	DatabaseInfo DatabaseInfo `json:"database_info"`
}

// HealthResponse is returned by GET /health while the store is reachable.
type HealthResponse struct {
	Healthy bool `json:"healthy"`
}

// ResultResponse is returned by successful mutations.
type ResultResponse struct {
	Result bool `json:"result"`
}

// --------------------------------------------------------------------------
// Writers
// --------------------------------------------------------------------------

// WriteJSON encodes body as the JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		log.Errorf("failed to encode response: %v", err)
		status = http.StatusInternalServerError
		data, _ = json.Marshal(ErrorEnvelope{Error: ErrInternal})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// WriteError writes apiErr inside the error envelope.
func WriteError(w http.ResponseWriter, apiErr *ApiError) {
	WriteJSON(w, apiErr.Status(), ErrorEnvelope{Error: apiErr})
}

// WriteBytes writes a raw binary value.
func WriteBytes(w http.ResponseWriter, value []byte) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(value)
}

// DecodeError parses an error envelope. It returns nil if body is not one.
func DecodeError(body []byte) *ApiError {
	var env ErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error == nil {
		return nil
	}
	return env.Error
}

// Unmarshal decodes a JSON body with the same configuration the server encodes with.
func Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
