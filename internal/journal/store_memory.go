package journal

import (
	"context"
	"sync"
	"time"

	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/sentinel"
)

// InMemory is a map-backed Store for unit tests and local development.
type InMemory struct {
	mu     sync.RWMutex
	notes  map[string]DailyNote
	nextID int64
	clock  func() time.Time
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		notes:  make(map[string]DailyNote),
		nextID: 1,
		clock:  time.Now,
	}
}

// WithClock overrides the timestamp source for tests.
func (s *InMemory) WithClock(clock func() time.Time) *InMemory {
	s.clock = clock
	return s
}

func (s *InMemory) Get(_ context.Context, date string) (DailyNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[date]
	if !ok {
		return DailyNote{}, sentinel.ErrNotFound
	}
	return note, nil
}

func (s *InMemory) Upsert(_ context.Context, date, content string) (DailyNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock().UTC()
	if existing, ok := s.notes[date]; ok {
		existing.NoteContent = content
		existing.UpdatedAt = now
		s.notes[date] = existing
		return existing, nil
	}

	note := DailyNote{
		ID:          s.nextID,
		Date:        date,
		NoteContent: content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextID++
	s.notes[date] = note
	return note, nil
}
