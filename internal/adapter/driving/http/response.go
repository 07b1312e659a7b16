package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// RepoResponse is a repository available to analyze.
type RepoResponse struct {
	FullName string `json:"full_name"`
	Owner    string `json:"owner"`
	Name     string `json:"name"`
}

// ClassifyRequest is the JSON body for the classify endpoint. Login and Type
// describe the comment author and feed bot detection.
type ClassifyRequest struct {
	Body  string `json:"body"`
	Login string `json:"login"`
	Type  string `json:"type"`
}

func toRepoResponse(r model.Repository) RepoResponse {
	return RepoResponse{
		FullName: r.FullName(),
		Owner:    r.Owner,
		Name:     r.Name,
	}
}
