// Package entry holds the synced Toggl time entries and their annotations.
package entry

import "time"

// Note annotates a single time entry.
type Note struct {
	ID        int64     `json:"id"`
	EntryID   int64     `json:"entry_id"`
	NoteText  string    `json:"note_text"`
	CreatedAt time.Time `json:"created_at"`
}

// TimeEntry mirrors one Toggl time entry as synced into the local store.
// Instants are kept both as RFC3339 UTC strings (what the dashboard renders)
// and epoch seconds (what window queries filter on); Stop fields are nil for
// a running entry.
type TimeEntry struct {
	EntryID     int64    `json:"entry_id"`
	Description string   `json:"description"`
	ProjectID   int64    `json:"project_id"`
	ProjectName string   `json:"project_name"`
	Seconds     int64    `json:"seconds"`
	Start       string   `json:"start"`
	Stop        *string  `json:"stop"`
	At          string   `json:"at"`
	StartTS     int64    `json:"start_ts"`
	StopTS      *int64   `json:"stop_ts"`
	AtTS        int64    `json:"at_ts"`
	TagIDs      []int64  `json:"tag_ids"`
	TagNames    []string `json:"tag_names"`
	Notes       []Note   `json:"notes"`
}

// CreateNoteRequest is the POST /notes body.
type CreateNoteRequest struct {
	EntryID  int64  `json:"entry_id"`
	NoteText string `json:"note_text"`
}
