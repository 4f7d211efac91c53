package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JosephStocks/toggl-entry-annotator/internal/toggl"
	dErrors "github.com/JosephStocks/toggl-entry-annotator/pkg/domain-errors"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/testutil"
)

type stubService struct {
	recent  int
	full    int
	running *toggl.RunningEntry
	err     error
}

func (s *stubService) Recent(context.Context) (int, error) { return s.recent, s.err }
func (s *stubService) Full(context.Context) (int, error)   { return s.full, s.err }
func (s *stubService) Current(context.Context) (*toggl.RunningEntry, error) {
	return s.running, s.err
}

func newTestRouter(svc Service) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestRecent(t *testing.T) {
	r := newTestRouter(&stubService{recent: 7})

	req := testutil.NewRequest(t, http.MethodPost, "/sync/recent")
	rr := testutil.DoRequest(r, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok": true, "records": 7}`, rr.Body.String())
}

func TestFull(t *testing.T) {
	r := newTestRouter(&stubService{full: 4821})

	req := testutil.NewRequest(t, http.MethodPost, "/sync/full")
	rr := testutil.DoRequest(r, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok": true, "records": 4821}`, rr.Body.String())
}

func TestSyncFailure(t *testing.T) {
	r := newTestRouter(&stubService{
		err: dErrors.Wrap(dErrors.CodeUnavailable, "recent sync failed", errors.New("api down")),
	})

	req := testutil.NewRequest(t, http.MethodPost, "/sync/recent")
	rr := testutil.DoRequest(r, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestCurrentRunning(t *testing.T) {
	r := newTestRouter(&stubService{
		running: &toggl.RunningEntry{ID: 12345, Description: "focus block", ProjectName: "API Refactor"},
	})

	req := testutil.NewRequest(t, http.MethodGet, "/sync/current")
	rr := testutil.DoRequest(r, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, float64(12345), body["id"])
	assert.Equal(t, "API Refactor", body["project_name"])
}

func TestCurrentNoTimer(t *testing.T) {
	r := newTestRouter(&stubService{})

	req := testutil.NewRequest(t, http.MethodGet, "/sync/current")
	rr := testutil.DoRequest(r, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "null", rr.Body.String())
}
