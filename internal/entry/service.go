package entry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dErrors "github.com/JosephStocks/toggl-entry-annotator/pkg/domain-errors"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/sentinel"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/timeutil"
)

// Service validates requests and translates store facts into domain errors.
type Service struct {
	store      Store
	cutoffHour int
	loc        *time.Location
}

// NewService wires the entry service. cutoffHour and loc configure day
// bucketing for date-keyed listings.
func NewService(store Store, cutoffHour int, loc *time.Location) *Service {
	return &Service{store: store, cutoffHour: cutoffHour, loc: loc}
}

// ListWindow returns entries whose start instant falls in [start, end).
func (s *Service) ListWindow(ctx context.Context, start, end time.Time) ([]TimeEntry, error) {
	if !start.Before(end) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "start_iso must be < end_iso")
	}
	entries, err := s.store.ListWindow(ctx, start.Unix(), end.Unix())
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list time entries", err)
	}
	return entries, nil
}

// ListDay resolves the logical-day window anchored on the given civil date and
// returns the window bounds alongside the entries it contains. A negative
// cutoff selects the configured default.
func (s *Service) ListDay(ctx context.Context, date string, cutoff int) (timeutil.DayWindow, []TimeEntry, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return timeutil.DayWindow{}, nil, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", date))
	}
	if cutoff < 0 {
		cutoff = s.cutoffHour
	}

	window, err := timeutil.WindowForDate(parsed.Year(), parsed.Month(), parsed.Day(), cutoff, s.loc)
	if err != nil {
		return timeutil.DayWindow{}, nil, err
	}

	entries, err := s.store.ListWindow(ctx, window.Start.Unix(), window.End.Unix())
	if err != nil {
		return timeutil.DayWindow{}, nil, dErrors.Wrap(dErrors.CodeInternal, "list time entries", err)
	}
	return window, entries, nil
}

// AddNote attaches a note to an existing entry.
func (s *Service) AddNote(ctx context.Context, req CreateNoteRequest) (Note, error) {
	if req.EntryID == 0 {
		return Note{}, dErrors.New(dErrors.CodeBadRequest, "entry_id is required")
	}
	if strings.TrimSpace(req.NoteText) == "" {
		return Note{}, dErrors.New(dErrors.CodeBadRequest, "note_text is required")
	}

	note, err := s.store.AddNote(ctx, req.EntryID, req.NoteText)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Note{}, dErrors.New(dErrors.CodeNotFound, "Time entry not found")
		}
		return Note{}, dErrors.Wrap(dErrors.CodeInternal, "add note", err)
	}
	return note, nil
}

// DeleteNote removes a note by id.
func (s *Service) DeleteNote(ctx context.Context, noteID int64) error {
	err := s.store.DeleteNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "Note not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "delete note", err)
	}
	return nil
}
