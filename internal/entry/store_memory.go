package entry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/sentinel"
)

// InMemory is a map-backed Store for unit tests and local development.
type InMemory struct {
	mu         sync.RWMutex
	entries    map[int64]TimeEntry
	notes      map[int64]Note
	nextNoteID int64
	clock      func() time.Time
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		entries:    make(map[int64]TimeEntry),
		notes:      make(map[int64]Note),
		nextNoteID: 1,
		clock:      time.Now,
	}
}

// WithClock overrides the note timestamp source for tests.
func (s *InMemory) WithClock(clock func() time.Time) *InMemory {
	s.clock = clock
	return s
}

func (s *InMemory) Upsert(_ context.Context, e TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Notes = nil
	s.entries[e.EntryID] = e
	return nil
}

func (s *InMemory) ListWindow(_ context.Context, startTS, endTS int64) ([]TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]TimeEntry, 0)
	for _, e := range s.entries {
		if e.StartTS >= startTS && e.StartTS < endTS {
			e.Notes = s.notesFor(e.EntryID)
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTS < result[j].StartTS })
	return result, nil
}

// notesFor collects notes in creation order. Caller holds the lock.
func (s *InMemory) notesFor(entryID int64) []Note {
	notes := make([]Note, 0)
	for _, n := range s.notes {
		if n.EntryID == entryID {
			notes = append(notes, n)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	return notes
}

func (s *InMemory) AddNote(_ context.Context, entryID int64, text string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entryID]; !ok {
		return Note{}, sentinel.ErrNotFound
	}

	note := Note{
		ID:        s.nextNoteID,
		EntryID:   entryID,
		NoteText:  text,
		CreatedAt: s.clock().UTC(),
	}
	s.nextNoteID++
	s.notes[note.ID] = note
	return note, nil
}

func (s *InMemory) DeleteNote(_ context.Context, noteID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[noteID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.notes, noteID)
	return nil
}
