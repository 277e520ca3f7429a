package httpserver

import (
	"encoding/json"
	"net/http"

	"orderhub/internal/platform/result"
)

// Problem is the RFC 7807 error body. Extensions carries the failure's
// context entries untouched.
type Problem struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail"`
	Instance   string         `json:"instance"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func writeProblem(w http.ResponseWriter, r *http.Request, failure *result.Failure) {
	status := failure.HTTPStatus()
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Type:       "about:blank",
		Title:      string(failure.Code),
		Status:     status,
		Detail:     failure.Message,
		Instance:   r.URL.Path,
		Extensions: failure.Context,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
