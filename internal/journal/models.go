// Package journal holds the markdown daily notes, one per calendar date.
package journal

import "time"

// DailyNote is the markdown journal entry for one calendar date.
type DailyNote struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	NoteContent string    `json:"note_content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpsertRequest is the PUT /daily_notes/{date} body. Empty content is valid:
// clearing a day's note keeps the row.
type UpsertRequest struct {
	NoteContent string `json:"note_content"`
}
