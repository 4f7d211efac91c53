package journal

import "context"

// Store persists daily notes keyed by their calendar date (YYYY-MM-DD).
type Store interface {
	// Get returns the note for a date, or sentinel.ErrNotFound.
	Get(ctx context.Context, date string) (DailyNote, error)

	// Upsert writes the note for a date. Updates preserve id and created_at
	// and bump updated_at; inserts set both timestamps.
	Upsert(ctx context.Context, date, content string) (DailyNote, error)
}
