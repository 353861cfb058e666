// Package shared centralizes response writing so every handler produces the
// same JSON envelope and the same domain-error translation.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "medix/pkg/domain-errors"
)

// WriteJSON serializes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteText writes a plain-text body, used by the demo procedure endpoints.
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// WriteError translates a domain error into its HTTP status and envelope.
// Unclassified errors become opaque 500s.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": dErrors.MessageOf(err),
	})
}
