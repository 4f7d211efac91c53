package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/sentinel"
)

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed journal store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Get(ctx context.Context, date string) (DailyNote, error) {
	var note DailyNote
	err := s.pool.QueryRow(ctx, `
		SELECT id, to_char(note_date, 'YYYY-MM-DD'), note_content, created_at, updated_at
		FROM daily_notes
		WHERE note_date = $1
	`, date).Scan(&note.ID, &note.Date, &note.NoteContent, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DailyNote{}, sentinel.ErrNotFound
		}
		return DailyNote{}, fmt.Errorf("get daily note %s: %w", date, err)
	}
	return note, nil
}

func (s *Postgres) Upsert(ctx context.Context, date, content string) (DailyNote, error) {
	var note DailyNote
	err := s.pool.QueryRow(ctx, `
		INSERT INTO daily_notes (note_date, note_content)
		VALUES ($1, $2)
		ON CONFLICT (note_date) DO UPDATE SET
			note_content = EXCLUDED.note_content,
			updated_at   = now()
		RETURNING id, to_char(note_date, 'YYYY-MM-DD'), note_content, created_at, updated_at
	`, date, content).Scan(&note.ID, &note.Date, &note.NoteContent, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return DailyNote{}, fmt.Errorf("upsert daily note %s: %w", date, err)
	}
	return note, nil
}
