package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/JosephStocks/toggl-entry-annotator/pkg/domain-errors"
)

func newTestService() *Service {
	return NewService(NewInMemory())
}

func TestGetMissingReturnsNil(t *testing.T) {
	svc := newTestService()

	note, err := svc.Get(context.Background(), "2025-06-15")
	require.NoError(t, err)
	assert.Nil(t, note)
}

func TestGetInvalidDate(t *testing.T) {
	svc := newTestService()

	_, err := svc.Get(context.Background(), "June 15")
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))

	_, err = svc.Get(context.Background(), "2025-13-01")
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
}

func TestUpsertRoundTrip(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Upsert(ctx, "2025-06-15", "morning pages")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", created.Date)

	note, err := svc.Get(ctx, "2025-06-15")
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "morning pages", note.NoteContent)
}

func TestRenderHTML(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "2025-06-15", "# Heading\n\nSome **bold** text.")
	require.NoError(t, err)

	html, err := svc.RenderHTML(ctx, "2025-06-15")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Heading</h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRenderHTMLMissing(t *testing.T) {
	svc := newTestService()

	_, err := svc.RenderHTML(context.Background(), "2025-06-15")
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}
