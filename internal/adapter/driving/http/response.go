package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/repobrowser/internal/application"
	"github.com/ericfisherdev/repobrowser/internal/domain/model"
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

// FetchRequest is the body of POST /api/v1/repos/fetch.
type FetchRequest struct {
	User string `json:"user"`
}

// FetchAcceptedResponse acknowledges a started fetch.
type FetchAcceptedResponse struct {
	User string `json:"user"`
}

// ListResponse is the JSON representation of the repository list.
type ListResponse struct {
	UserName     string          `json:"user_name"`
	State        string          `json:"state"`
	Error        *FetchErrorBody `json:"error,omitempty"`
	Repositories []RepoResponse  `json:"repositories"`
}

// FetchErrorBody describes a failed fetch: the kind for clients and a fixed
// human-readable message.
type FetchErrorBody struct {
	Kind    string `json:"kind"`
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message"`
}

// RepoResponse is the JSON representation of a repository list entry.
type RepoResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	FullName        *string `json:"full_name"`
	Description     *string `json:"description"`
	StargazersCount int     `json:"stargazers_count"`
	Language        *string `json:"language"`
	IsFavorite      bool    `json:"is_favorite"`
}

// DetailResponse is the JSON representation of a repository detail screen.
type DetailResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       string `json:"stars"`
	IsFavorite  bool   `json:"is_favorite"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toListResponse(s application.ListSnapshot) ListResponse {
	resp := ListResponse{
		UserName:     s.UserName,
		State:        string(s.State.Status),
		Repositories: toRepoResponses(s.Repositories),
	}
	if s.State.Err != nil {
		resp.Error = toFetchErrorBody(s.State.Err.Fetch)
	}
	return resp
}

func toRepoResponses(repos []model.Repository) []RepoResponse {
	resp := make([]RepoResponse, 0, len(repos))
	for _, r := range repos {
		resp = append(resp, RepoResponse{
			ID:              r.ID,
			Name:            r.Name,
			FullName:        r.FullName,
			Description:     r.Description,
			StargazersCount: r.StargazersCount,
			Language:        r.Language,
			IsFavorite:      r.IsFavorite,
		})
	}
	return resp
}

func toFetchErrorBody(err model.FetchError) *FetchErrorBody {
	return &FetchErrorBody{
		Kind:    string(err.Kind),
		Detail:  err.Detail,
		Message: ErrorMessage(err),
	}
}

func toDetailResponse(d *application.RepoDetailController) DetailResponse {
	repo := d.Repository()
	return DetailResponse{
		ID:          repo.ID,
		Name:        repo.Name,
		FullName:    d.FullName(),
		Description: d.Description(),
		Language:    d.Language(),
		Stars:       d.Stars(),
		IsFavorite:  repo.IsFavorite,
	}
}
