package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JosephStocks/toggl-entry-annotator/internal/journal"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/testutil"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	svc := journal.NewService(journal.NewInMemory())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(svc, logger, nil)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestGetMissingNoteReturnsNull(t *testing.T) {
	r := newTestRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/daily_notes/2025-06-15")
	rr := testutil.DoRequest(r, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "null", rr.Body.String())
}

func TestGetInvalidDate(t *testing.T) {
	r := newTestRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/daily_notes/not-a-date")
	rr := testutil.DoRequest(r, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPutThenGet(t *testing.T) {
	r := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/daily_notes/2025-06-15",
		journal.UpsertRequest{NoteContent: "## Standup\n\n- fixed sync"})
	rr := testutil.DoRequest(r, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var created journal.DailyNote
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "2025-06-15", created.Date)
	assert.Equal(t, "## Standup\n\n- fixed sync", created.NoteContent)

	req = testutil.NewRequest(t, http.MethodGet, "/daily_notes/2025-06-15")
	rr = testutil.DoRequest(r, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got journal.DailyNote
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.NoteContent, got.NoteContent)
}

func TestPutUpdatePreservesIdentity(t *testing.T) {
	r := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/daily_notes/2025-06-15",
		journal.UpsertRequest{NoteContent: "v1"})
	rr := testutil.DoRequest(r, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var first journal.DailyNote
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))

	req = testutil.NewJSONRequest(t, http.MethodPut, "/daily_notes/2025-06-15",
		journal.UpsertRequest{NoteContent: "v2"})
	rr = testutil.DoRequest(r, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var second journal.DailyNote
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "v2", second.NoteContent)
}

func TestPutEmptyContent(t *testing.T) {
	r := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/daily_notes/2025-06-15",
		journal.UpsertRequest{NoteContent: ""})
	rr := testutil.DoRequest(r, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestPutInvalidBody(t *testing.T) {
	r := newTestRouter(t)

	req := testutil.NewRequestWithBody(t, http.MethodPut, "/daily_notes/2025-06-15", "not json")
	rr := testutil.DoRequest(r, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetHTML(t *testing.T) {
	r := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/daily_notes/2025-06-15",
		journal.UpsertRequest{NoteContent: "# Title\n\n*italic*"})
	rr := testutil.DoRequest(r, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = testutil.NewRequest(t, http.MethodGet, "/daily_notes/2025-06-15/html")
	rr = testutil.DoRequest(r, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "2025-06-15", body["date"])
	assert.Contains(t, body["html"], "<h1>Title</h1>")
	assert.Contains(t, body["html"], "<em>italic</em>")
}

func TestGetHTMLMissing(t *testing.T) {
	r := newTestRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/daily_notes/2025-06-15/html")
	rr := testutil.DoRequest(r, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
