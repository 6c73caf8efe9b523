package utils

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// APIError is the uniform error body every handler returns: a stable
// machine-readable code, a human-readable detail, and the same code
// duplicated under "error" for clients that only look there.
type APIError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// WriteAPIError writes the uniform {error, detail, code} error body.
func WriteAPIError(w http.ResponseWriter, status int, code, detail string) error {
	return WriteJSON(w, status, APIError{Error: code, Detail: detail, Code: code})
}
