// Package httputil provides request/response helpers shared by the API
// handlers.
package httputil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/soil-network/platform-api/internal/apperr"
)

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes a `{"error": message}` body with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteErr writes err using its taxonomy status, defaulting to 500.
func WriteErr(w http.ResponseWriter, err error) {
	WriteError(w, apperr.Status(err), err.Error())
}

// BadRequest writes a 400 validation error.
func BadRequest(w http.ResponseWriter, message string) {
	WriteErr(w, apperr.Validation(message))
}

// NotFound writes a 404 error.
func NotFound(w http.ResponseWriter, message string) {
	WriteErr(w, apperr.NotFound(message))
}

// Conflict writes a 409 error.
func Conflict(w http.ResponseWriter, message string) {
	WriteErr(w, apperr.Conflict(message))
}

// Unauthorized writes a 401 error.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteErr(w, apperr.Unauthorized(message))
}

// Forbidden writes a 403 error.
func Forbidden(w http.ResponseWriter, message string) {
	WriteErr(w, apperr.Forbidden(message))
}

// InternalError writes a 500 error.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// DecodeJSON decodes the request body into dst. On failure it writes a 400
// response and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil {
		BadRequest(w, "Invalid request body")
		return false
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		BadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// BearerToken extracts the token from an `Authorization: Bearer <token>`
// header. It returns "" when the header is missing or malformed.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return h[len("Bearer "):]
}

// ClientIP returns the client identity for rate limiting. It trusts only
// the configured proxy header; requests without it collapse to a single
// shared "unknown" identity.
func ClientIP(r *http.Request, trustedHeader string) string {
	if ip := strings.TrimSpace(r.Header.Get(trustedHeader)); ip != "" {
		return ip
	}
	return "unknown"
}
