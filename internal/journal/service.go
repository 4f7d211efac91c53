package journal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	dErrors "github.com/JosephStocks/toggl-entry-annotator/pkg/domain-errors"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/sentinel"
)

// Service validates dates and renders note markdown to HTML.
type Service struct {
	store Store
	md    goldmark.Markdown
}

// NewService wires the journal service.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func parseDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", date))
	}
	return nil
}

// Get returns the note for a date, or nil when no note exists. A missing note
// is not an error at this endpoint.
func (s *Service) Get(ctx context.Context, date string) (*DailyNote, error) {
	if err := parseDate(date); err != nil {
		return nil, err
	}

	note, err := s.store.Get(ctx, date)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "get daily note", err)
	}
	return &note, nil
}

// Upsert writes the note content for a date, creating or replacing it.
func (s *Service) Upsert(ctx context.Context, date, content string) (DailyNote, error) {
	if err := parseDate(date); err != nil {
		return DailyNote{}, err
	}

	note, err := s.store.Upsert(ctx, date, content)
	if err != nil {
		return DailyNote{}, dErrors.Wrap(dErrors.CodeInternal, "upsert daily note", err)
	}
	return note, nil
}

// RenderHTML converts a date's note markdown to HTML. Missing notes are a
// not-found error here, unlike Get.
func (s *Service) RenderHTML(ctx context.Context, date string) (string, error) {
	if err := parseDate(date); err != nil {
		return "", err
	}

	note, err := s.store.Get(ctx, date)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "Daily note not found")
		}
		return "", dErrors.Wrap(dErrors.CodeInternal, "get daily note", err)
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(note.NoteContent), &buf); err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "render daily note", err)
	}
	return buf.String(), nil
}
