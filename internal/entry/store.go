package entry

import "context"

// Store persists time entries and their notes. Implementations return
// sentinel errors for factual states (missing entry, missing note); the
// service translates them into domain errors.
type Store interface {
	// Upsert inserts or fully updates an entry keyed by EntryID. Notes are
	// never touched by upserts.
	Upsert(ctx context.Context, e TimeEntry) error

	// ListWindow returns entries with start_ts in [startTS, endTS), ordered
	// by start_ts ascending, each with its notes attached in creation order.
	ListWindow(ctx context.Context, startTS, endTS int64) ([]TimeEntry, error)

	// AddNote attaches a note to an entry. Returns sentinel.ErrNotFound when
	// the entry does not exist.
	AddNote(ctx context.Context, entryID int64, text string) (Note, error)

	// DeleteNote removes a note by id. Returns sentinel.ErrNotFound when no
	// such note exists.
	DeleteNote(ctx context.Context, noteID int64) error
}
