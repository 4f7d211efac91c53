package entry

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/sentinel"
)

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed entry store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Upsert(ctx context.Context, e TimeEntry) error {
	tagIDs := e.TagIDs
	if tagIDs == nil {
		tagIDs = []int64{}
	}
	tagNames := e.TagNames
	if tagNames == nil {
		tagNames = []string{}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO time_entries (
			entry_id, description, project_id, project_name,
			seconds, start_iso, stop_iso, at_iso,
			start_ts, stop_ts, at_ts,
			tag_ids, tag_names
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (entry_id) DO UPDATE SET
			description  = EXCLUDED.description,
			project_id   = EXCLUDED.project_id,
			project_name = EXCLUDED.project_name,
			seconds      = EXCLUDED.seconds,
			start_iso    = EXCLUDED.start_iso,
			stop_iso     = EXCLUDED.stop_iso,
			at_iso       = EXCLUDED.at_iso,
			start_ts     = EXCLUDED.start_ts,
			stop_ts      = EXCLUDED.stop_ts,
			at_ts        = EXCLUDED.at_ts,
			tag_ids      = EXCLUDED.tag_ids,
			tag_names    = EXCLUDED.tag_names
	`,
		e.EntryID, e.Description, e.ProjectID, e.ProjectName,
		e.Seconds, e.Start, e.Stop, e.At,
		e.StartTS, e.StopTS, e.AtTS,
		tagIDs, tagNames,
	)
	if err != nil {
		return fmt.Errorf("upsert time entry %d: %w", e.EntryID, err)
	}
	return nil
}

func (s *Postgres) ListWindow(ctx context.Context, startTS, endTS int64) ([]TimeEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT entry_id, description, project_id, project_name,
		       seconds, start_iso, stop_iso, at_iso,
		       start_ts, stop_ts, at_ts,
		       tag_ids, tag_names
		FROM time_entries
		WHERE start_ts >= $1
		  AND start_ts <  $2
		ORDER BY start_ts
	`, startTS, endTS)
	if err != nil {
		return nil, fmt.Errorf("query time entries: %w", err)
	}
	defer rows.Close()

	entries := make([]TimeEntry, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var e TimeEntry
		err := rows.Scan(
			&e.EntryID, &e.Description, &e.ProjectID, &e.ProjectName,
			&e.Seconds, &e.Start, &e.Stop, &e.At,
			&e.StartTS, &e.StopTS, &e.AtTS,
			&e.TagIDs, &e.TagNames,
		)
		if err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		e.Notes = []Note{}
		entries = append(entries, e)
		ids = append(ids, e.EntryID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time entries: %w", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	if err := s.attachNotes(ctx, entries, ids); err != nil {
		return nil, err
	}
	return entries, nil
}

// attachNotes loads notes for the listed entries in one round trip and merges
// them in creation order.
func (s *Postgres) attachNotes(ctx context.Context, entries []TimeEntry, ids []int64) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, entry_id, note_text, created_at
		FROM entry_notes
		WHERE entry_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("query entry notes: %w", err)
	}
	defer rows.Close()

	byEntry := make(map[int64][]Note, len(entries))
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.EntryID, &n.NoteText, &n.CreatedAt); err != nil {
			return fmt.Errorf("scan entry note: %w", err)
		}
		byEntry[n.EntryID] = append(byEntry[n.EntryID], n)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate entry notes: %w", err)
	}

	for i := range entries {
		if notes, ok := byEntry[entries[i].EntryID]; ok {
			entries[i].Notes = notes
		}
	}
	return nil
}

func (s *Postgres) AddNote(ctx context.Context, entryID int64, text string) (Note, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM time_entries WHERE entry_id = $1)`, entryID,
	).Scan(&exists)
	if err != nil {
		return Note{}, fmt.Errorf("check entry %d: %w", entryID, err)
	}
	if !exists {
		return Note{}, sentinel.ErrNotFound
	}

	note := Note{EntryID: entryID, NoteText: text}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO entry_notes (entry_id, note_text)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, entryID, text).Scan(&note.ID, &note.CreatedAt)
	if err != nil {
		return Note{}, fmt.Errorf("insert note for entry %d: %w", entryID, err)
	}
	return note, nil
}

func (s *Postgres) DeleteNote(ctx context.Context, noteID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM entry_notes WHERE id = $1`, noteID)
	if err != nil {
		return fmt.Errorf("delete note %d: %w", noteID, err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
