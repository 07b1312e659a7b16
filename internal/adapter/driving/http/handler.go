package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/reviewsift/internal/adapter/driving/report"
	"github.com/ericfisherdev/reviewsift/internal/application"
	"github.com/ericfisherdev/reviewsift/internal/domain/model"
	"github.com/ericfisherdev/reviewsift/internal/domain/port/driven"
)

// maxClassifyBody bounds the classify request body.
const maxClassifyBody = 1 << 20

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	analysisSvc *application.AnalysisService
	metrics     *Metrics
	version     string
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. metrics may be
// nil, in which case nothing is recorded and /metrics is not served.
func NewHandler(
	analysisSvc *application.AnalysisService,
	metrics *Metrics,
	version string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		analysisSvc: analysisSvc,
		metrics:     metrics,
		version:     version,
		logger:      logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/repos", h.ListRepos)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/analysis", h.GetAnalysis)
	mux.HandleFunc("POST /api/v1/classify", h.Classify)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, h.metrics, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// ListRepos returns the repositories available to analyze.
func (h *Handler) ListRepos(w http.ResponseWriter, r *http.Request) {
	names, err := h.analysisSvc.Repositories(r.Context())
	if err != nil {
		h.logger.Error("failed to list repos", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]RepoResponse, 0, len(names))
	for _, name := range names {
		repo, err := model.ParseRepository(name)
		if err != nil {
			h.logger.Warn("skipping unparseable repository", "repo", name, "error", err)
			continue
		}
		resp = append(resp, toRepoResponse(repo))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetAnalysis classifies every review comment of a repository. Query
// parameters: exclude_bots (bool), actionable (bool, omit non-actionable
// comments), since and until (YYYY-MM-DD or RFC 3339).
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	repo, err := model.ParseRepository(r.PathValue("owner") + "/" + r.PathValue("repo"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	excludeBots, err := boolParam(q.Get("exclude_bots"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exclude_bots: "+err.Error())
		return
	}
	actionableOnly, err := boolParam(q.Get("actionable"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid actionable: "+err.Error())
		return
	}
	since, err := timeParam(q.Get("since"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid since: "+err.Error())
		return
	}
	until, err := timeParam(q.Get("until"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid until: "+err.Error())
		return
	}

	analysis, err := h.analysisSvc.Analyze(r.Context(), repo.Owner, repo.Name, application.AnalyzeOptions{
		ExcludeBots: excludeBots,
		Since:       since,
		Until:       until,
	})
	if err != nil {
		if errors.Is(err, driven.ErrRepositoryNotFound) {
			writeError(w, http.StatusNotFound, "repository not found")
			return
		}
		h.logger.Error("failed to analyze repo", "repo", repo.FullName(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveAnalysis(analysis)
	}

	writeJSON(w, http.StatusOK, report.NewDocument(analysis, !actionableOnly))
}

// Classify runs the classifier over a single comment body.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClassifyBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := application.Classify(model.ReviewComment{
		Body:     req.Body,
		Reviewer: model.User{Login: req.Login, Type: req.Type},
	})

	if h.metrics != nil {
		h.metrics.ObserveClassification(c)
	}

	writeJSON(w, http.StatusOK, report.NewClassificationDoc(c))
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// timeParam parses a query time. A bare date used as an upper bound covers
// the whole day.
func timeParam(v string, endOfDay bool) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC 3339, got %q", v)
	}
	return t, nil
}
