package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/storage"
)

// Runner runs one submission synchronously and stores its outcome.
type Runner interface {
	Run(ctx context.Context, sub *core.Submission) (*core.Report, error)
}

// ReviewsHandler serves the review submission and history endpoints.
type ReviewsHandler struct {
	runner Runner
	store  storage.Store
	logger *slog.Logger
}

// NewReviewsHandler creates a handler backed by runner and store.
func NewReviewsHandler(runner Runner, store storage.Store, logger *slog.Logger) *ReviewsHandler {
	return &ReviewsHandler{runner: runner, store: store, logger: logger}
}

type submitRequest struct {
	RepoURL     string `json:"repo_url"`
	PRLink      string `json:"pr_link"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// RunResponse is the body returned for a completed run.
type RunResponse struct {
	ID           int64                 `json:"id"`
	RepoURL      string                `json:"repo_url"`
	PRLink       string                `json:"pr_link"`
	Status       core.Status           `json:"status"`
	Feedback     []string              `json:"feedback"`
	HeadSHA      string                `json:"head_sha,omitempty"`
	QualityScore *float64              `json:"quality_score,omitempty"`
	ReviewedBy   string                `json:"reviewed_by,omitempty"`
	Impact       core.ImpactLevel      `json:"impact,omitempty"`
	Backup       *core.BackupReference `json:"backup,omitempty"`
	Error        string                `json:"error,omitempty"`
	Duration     string                `json:"duration,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Submit handles POST /reviews.
func (h *ReviewsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	h.run(w, r, &core.Submission{RepoURL: req.RepoURL, PRLink: req.PRLink, RequestedBy: req.RequestedBy}, http.StatusCreated)
}

// Refresh handles POST /reviews/{id}/refresh: it re-runs the pipeline for a
// stored record's pull request.
func (h *ReviewsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rec, err := h.store.GetReview(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.run(w, r, &core.Submission{RepoURL: rec.RepoURL, PRLink: rec.PRLink, RequestedBy: "refresh"}, http.StatusOK)
}

// List handles GET /reviews.
func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	records, err := h.store.ListReviews(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Get handles GET /reviews/{id}.
func (h *ReviewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rec, err := h.store.GetReview(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /reviews/{id}.
func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteReview(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewsHandler) run(w http.ResponseWriter, r *http.Request, sub *core.Submission, okStatus int) {
	report, err := h.runner.Run(r.Context(), sub)
	if report == nil {
		h.writeError(w, err)
		return
	}
	if err != nil {
		// The run finished but its record could not be saved.
		h.logger.Error("review run not persisted", "pr_link", sub.PRLink, "error", err)
	}
	writeJSON(w, okStatus, NewRunResponse(report))
}

// NewRunResponse flattens a report for API clients.
func NewRunResponse(report *core.Report) RunResponse {
	resp := RunResponse{
		ID:       report.RecordID,
		RepoURL:  report.RepoURL,
		PRLink:   report.PRLink,
		Status:   report.Status,
		Feedback: report.Feedback,
		HeadSHA:  report.HeadSHA,
		Backup:   report.Backup,
	}
	if resp.Feedback == nil {
		resp.Feedback = []string{}
	}
	if report.AI != nil {
		score := report.AI.QualityScore
		resp.QualityScore = &score
		resp.ReviewedBy = report.AI.Source
	}
	if report.Risk != nil {
		resp.Impact = report.Risk.ImpactLevel
	}
	if report.Err != nil {
		resp.Error = report.Err.Error()
	}
	if !report.CompletedAt.IsZero() {
		resp.Duration = report.CompletedAt.Sub(report.StartedAt).Round(time.Millisecond).String()
	}
	return resp
}

func (h *ReviewsHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrProvider), errors.Is(err, core.ErrUnprocessable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid review id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
