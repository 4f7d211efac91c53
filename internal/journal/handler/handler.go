// Package handler exposes the daily-journal endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JosephStocks/toggl-entry-annotator/internal/journal"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/metrics"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/middleware"
	dErrors "github.com/JosephStocks/toggl-entry-annotator/pkg/domain-errors"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/httputil"
)

// Service defines the journal operations the handler depends on.
type Service interface {
	Get(ctx context.Context, date string) (*journal.DailyNote, error)
	Upsert(ctx context.Context, date, content string) (journal.DailyNote, error)
	RenderHTML(ctx context.Context, date string) (string, error)
}

// Handler handles daily-note endpoints.
type Handler struct {
	logger  *slog.Logger
	notes   Service
	metrics *metrics.Metrics
}

// New creates a new journal Handler.
func New(notes Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, notes: notes, metrics: m}
}

// Register registers the journal routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/daily_notes/{date}", h.handleGet)
	r.Put("/daily_notes/{date}", h.handleUpsert)
	r.Get("/daily_notes/{date}/html", h.handleHTML)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// A day with no journal entry responds 200 with a JSON null body, so
	// clients can probe dates without handling 404s.
	note, err := h.notes.Get(ctx, chi.URLParam(r, "date"))
	if err != nil {
		h.logError(ctx, "get daily note failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, note)
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req journal.UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	note, err := h.notes.Upsert(ctx, chi.URLParam(r, "date"), req.NoteContent)
	if err != nil {
		h.logError(ctx, "upsert daily note failed", err)
		httputil.WriteError(w, err)
		return
	}

	h.metrics.IncJournalUpserts()
	httputil.WriteJSON(w, http.StatusOK, note)
}

// htmlResponse carries a rendered note.
type htmlResponse struct {
	Date string `json:"date"`
	HTML string `json:"html"`
}

func (h *Handler) handleHTML(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	date := chi.URLParam(r, "date")

	html, err := h.notes.RenderHTML(ctx, date)
	if err != nil {
		h.logError(ctx, "render daily note failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, htmlResponse{Date: date, HTML: html})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"error", err.Error(),
		"request_id", middleware.GetRequestID(ctx),
	)
}
