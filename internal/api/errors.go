package api

import (
	"encoding/json"
	"net/http"
)

// Error represents a structured error response. Message carries the error
// category; Details carries the human-readable cause.
type Error struct {
	Message string `json:"message"`
	Details string `json:"details"`
}

// Error category messages. Every failure response uses exactly one of these.
const (
	msgValidationFailed    = "Validation failed"
	msgConstraintViolation = "Database constraint violation"
	msgNotFound            = "Resource not found"
	msgBlocked             = "Resource is blocked"
	msgInternal            = "Internal server error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, Error{
		Message: message,
		Details: details,
	})
}

// writeValidationFailed writes a 400 error response.
func writeValidationFailed(w http.ResponseWriter, details string) {
	writeError(w, http.StatusBadRequest, msgValidationFailed, details)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, details string) {
	writeError(w, http.StatusNotFound, msgNotFound, details)
}

// writeConflict writes a 409 error response.
func writeConflict(w http.ResponseWriter, details string) {
	writeError(w, http.StatusConflict, msgConstraintViolation, details)
}

// writeBlocked writes a 423 error response.
func writeBlocked(w http.ResponseWriter, details string) {
	writeError(w, http.StatusLocked, msgBlocked, details)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, details string) {
	writeError(w, http.StatusInternalServerError, msgInternal, details)
}
