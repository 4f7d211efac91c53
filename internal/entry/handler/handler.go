// Package handler exposes the time-entry browsing and annotation endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JosephStocks/toggl-entry-annotator/internal/entry"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/metrics"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/middleware"
	dErrors "github.com/JosephStocks/toggl-entry-annotator/pkg/domain-errors"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/httputil"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/timeutil"
)

// Service defines the entry operations the handler depends on.
type Service interface {
	ListWindow(ctx context.Context, start, end time.Time) ([]entry.TimeEntry, error)
	ListDay(ctx context.Context, date string, cutoff int) (timeutil.DayWindow, []entry.TimeEntry, error)
	AddNote(ctx context.Context, req entry.CreateNoteRequest) (entry.Note, error)
	DeleteNote(ctx context.Context, noteID int64) error
}

// Handler handles time-entry and note endpoints.
type Handler struct {
	logger  *slog.Logger
	entries Service
	metrics *metrics.Metrics
}

// New creates a new entry Handler.
func New(entries Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, entries: entries, metrics: m}
}

// Register registers the entry routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/time_entries", h.handleListWindow)
	r.Get("/time_entries/day/{date}", h.handleListDay)
	r.Post("/notes", h.handleCreateNote)
	r.Delete("/notes/{note_id}", h.handleDeleteNote)
}

// dayWindowResponse wraps a day listing with the resolved absolute bounds so
// the client can render the window without recomputing it.
type dayWindowResponse struct {
	Start   string            `json:"start"`
	End     string            `json:"end"`
	Entries []entry.TimeEntry `json:"entries"`
}

func (h *Handler) handleListWindow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, err := parseWindowParam(r, "start_iso")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	end, err := parseWindowParam(r, "end_iso")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.entries.ListWindow(ctx, start, end)
	if err != nil {
		h.logError(ctx, "list time entries failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleListDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	date := chi.URLParam(r, "date")

	cutoff := -1
	if v := r.URL.Query().Get("cutoff"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 || parsed > 23 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "cutoff must be an integer in [0,23]"))
			return
		}
		cutoff = parsed
	}

	window, entries, err := h.entries.ListDay(ctx, date, cutoff)
	if err != nil {
		h.logError(ctx, "list day entries failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dayWindowResponse{
		Start:   window.Start.Format(time.RFC3339),
		End:     window.End.Format(time.RFC3339),
		Entries: entries,
	})
}

func (h *Handler) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req entry.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if _, err := h.entries.AddNote(ctx, req); err != nil {
		h.logError(ctx, "create note failed", err)
		httputil.WriteError(w, err)
		return
	}

	h.metrics.IncNotesCreated()
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"message": "Note added"})
}

func (h *Handler) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	noteID, err := strconv.ParseInt(chi.URLParam(r, "note_id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "note_id must be an integer"))
		return
	}

	if err := h.entries.DeleteNote(ctx, noteID); err != nil {
		h.logError(ctx, "delete note failed", err)
		httputil.WriteError(w, err)
		return
	}

	h.metrics.IncNotesDeleted()
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Note deleted"})
}

// parseWindowParam reads a required RFC3339 query parameter. The layout
// demands an explicit offset, so zone-naive values are rejected.
func parseWindowParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, dErrors.New(dErrors.CodeBadRequest, name+" is required")
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeBadRequest,
			name+" must be an RFC3339 datetime with timezone")
	}
	return t, nil
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
