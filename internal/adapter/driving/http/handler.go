package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/repobrowser/internal/application"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	list   *application.RepoListController
	queue  *application.MainQueue
	logger *slog.Logger

	heartbeat time.Duration
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	list *application.RepoListController,
	queue *application.MainQueue,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		list:      list,
		queue:     queue,
		logger:    logger,
		heartbeat: 30 * time.Second,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/repos", h.ListRepos)
	mux.HandleFunc("POST /api/v1/repos/fetch", h.FetchRepos)
	mux.HandleFunc("GET /api/v1/repos/{id}", h.GetRepo)
	mux.HandleFunc("POST /api/v1/repos/{id}/favorite", h.ToggleFavorite)
	mux.HandleFunc("GET /api/v1/events", h.StreamEvents)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// ListRepos returns the current user, fetch state and repositories.
func (h *Handler) ListRepos(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toListResponse(h.list.Snapshot()))
}

// FetchRepos starts a fetch for the requested user. The outcome is reported
// through ListRepos and the event stream.
func (h *Handler) FetchRepos(w http.ResponseWriter, r *http.Request) {
	var req FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.list.FetchRepositories(req.User)

	writeJSON(w, http.StatusAccepted, FetchAcceptedResponse{User: req.User})
}

// GetRepo returns the display fields of one repository of the current list.
func (h *Handler) GetRepo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRepoID(w, r)
	if !ok {
		return
	}

	repo, found := h.list.Repository(id)
	if !found {
		writeError(w, http.StatusNotFound, "repository not found")
		return
	}

	writeJSON(w, http.StatusOK, toDetailResponse(application.NewRepoDetailController(repo, h.queue)))
}

// ToggleFavorite flips the favorite flag of a repository through a detail
// controller and hands the result back to the list.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRepoID(w, r)
	if !ok {
		return
	}

	repo, found := h.list.Repository(id)
	if !found {
		writeError(w, http.StatusNotFound, "repository not found")
		return
	}

	detail := application.NewRepoDetailController(repo, h.queue)
	detail.ToggleFavorite()
	h.list.UpdateRepository(detail.Repository())

	if err := h.queue.Sync(r.Context()); err != nil {
		h.logger.Error("failed to apply favorite toggle", "id", id, "error", err)
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	writeJSON(w, http.StatusOK, toDetailResponse(detail))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

func parseRepoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid repository id")
		return 0, false
	}
	return id, true
}
