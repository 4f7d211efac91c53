// Package handler exposes the sync trigger and running-timer endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/middleware"
	"github.com/JosephStocks/toggl-entry-annotator/internal/toggl"
	dErrors "github.com/JosephStocks/toggl-entry-annotator/pkg/domain-errors"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/httputil"
)

// Service defines the sync operations the handler depends on.
type Service interface {
	Recent(ctx context.Context) (int, error)
	Full(ctx context.Context) (int, error)
	Current(ctx context.Context) (*toggl.RunningEntry, error)
}

// Handler handles sync endpoints.
type Handler struct {
	logger *slog.Logger
	sync   Service
}

// New creates a new sync Handler.
func New(sync Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, sync: sync}
}

// Register registers the sync routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sync/recent", h.handleRecent)
	r.Post("/sync/full", h.handleFull)
	r.Get("/sync/current", h.handleCurrent)
}

// syncResponse reports a completed sync run.
type syncResponse struct {
	OK      bool `json:"ok"`
	Records int  `json:"records"`
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.sync.Recent(ctx)
	if err != nil {
		h.logError(ctx, "recent sync failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, syncResponse{OK: true, Records: count})
}

func (h *Handler) handleFull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.sync.Full(ctx)
	if err != nil {
		h.logError(ctx, "full sync failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, syncResponse{OK: true, Records: count})
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// No running timer responds 200 with a JSON null body.
	running, err := h.sync.Current(ctx)
	if err != nil {
		h.logError(ctx, "fetch current entry failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, running)
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
