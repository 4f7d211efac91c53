//go:build integration

package entry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/sentinel"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/testutil/containers"
)

type PostgresEntryStoreSuite struct {
	suite.Suite
	store *Postgres
	pg    *containers.PostgresContainer
	ctx   context.Context
}

func (s *PostgresEntryStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = NewPostgres(s.pg.Pool)
}

func (s *PostgresEntryStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "entry_notes", "time_entries"))
}

func TestPostgresEntryStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresEntryStoreSuite))
}

func (s *PostgresEntryStoreSuite) newEntry(id, startTS int64) TimeEntry {
	start := time.Unix(startTS, 0).UTC().Format(time.RFC3339)
	return TimeEntry{
		EntryID:     id,
		Description: "desc",
		ProjectID:   1,
		ProjectName: "proj",
		Seconds:     60,
		Start:       start,
		At:          start,
		StartTS:     startTS,
		AtTS:        startTS,
		TagIDs:      []int64{},
		TagNames:    []string{},
	}
}

func (s *PostgresEntryStoreSuite) TestUpsertRoundTrip() {
	e := s.newEntry(1, 1000)
	e.TagIDs = []int64{301}
	e.TagNames = []string{"testing"}
	stop := time.Unix(1060, 0).UTC().Format(time.RFC3339)
	stopTS := int64(1060)
	e.Stop = &stop
	e.StopTS = &stopTS

	s.Require().NoError(s.store.Upsert(s.ctx, e))

	entries, err := s.store.ListWindow(s.ctx, 0, 2000)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)

	got := entries[0]
	s.Equal(e.EntryID, got.EntryID)
	s.Equal(e.Description, got.Description)
	s.Require().NotNil(got.Stop)
	s.Equal(stop, *got.Stop)
	s.Equal([]int64{301}, got.TagIDs)
	s.Equal([]string{"testing"}, got.TagNames)
	s.Empty(got.Notes)
}

func (s *PostgresEntryStoreSuite) TestUpsertReplacesExisting() {
	e := s.newEntry(1, 1000)
	s.Require().NoError(s.store.Upsert(s.ctx, e))

	e.Description = "updated"
	e.Seconds = 120
	s.Require().NoError(s.store.Upsert(s.ctx, e))

	entries, err := s.store.ListWindow(s.ctx, 0, 2000)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("updated", entries[0].Description)
	s.Equal(int64(120), entries[0].Seconds)
}

func (s *PostgresEntryStoreSuite) TestListWindowBoundaries() {
	for id, ts := range map[int64]int64{
		10: 1735689600,
		11: 1735732800,
		12: 1735776000, // upper bound, excluded
		13: 1735689599, // below, excluded
		14: 1735775999,
	} {
		s.Require().NoError(s.store.Upsert(s.ctx, s.newEntry(id, ts)))
	}

	entries, err := s.store.ListWindow(s.ctx, 1735689600, 1735776000)
	s.Require().NoError(err)

	got := make([]int64, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.EntryID)
	}
	s.Equal([]int64{10, 11, 14}, got)
}

func (s *PostgresEntryStoreSuite) TestNotesLifecycle() {
	s.Require().NoError(s.store.Upsert(s.ctx, s.newEntry(1, 1000)))

	note, err := s.store.AddNote(s.ctx, 1, "first")
	s.Require().NoError(err)
	s.Equal(int64(1), note.EntryID)
	s.False(note.CreatedAt.IsZero())

	_, err = s.store.AddNote(s.ctx, 1, "second")
	s.Require().NoError(err)

	entries, err := s.store.ListWindow(s.ctx, 0, 2000)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Require().Len(entries[0].Notes, 2)
	s.Equal("first", entries[0].Notes[0].NoteText)
	s.Equal("second", entries[0].Notes[1].NoteText)

	s.Require().NoError(s.store.DeleteNote(s.ctx, note.ID))
	s.Require().ErrorIs(s.store.DeleteNote(s.ctx, note.ID), sentinel.ErrNotFound)
}

func (s *PostgresEntryStoreSuite) TestAddNoteUnknownEntry() {
	_, err := s.store.AddNote(s.ctx, 999, "orphan")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresEntryStoreSuite) TestUpsertDoesNotTouchNotes() {
	e := s.newEntry(1, 1000)
	s.Require().NoError(s.store.Upsert(s.ctx, e))
	_, err := s.store.AddNote(s.ctx, 1, "keep me")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Upsert(s.ctx, e))

	entries, err := s.store.ListWindow(s.ctx, 0, 2000)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Len(entries[0].Notes, 1)
}
