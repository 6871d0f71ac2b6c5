package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calendar-engine/core"
)

func TestPostgresStore_EnsureSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		defer mock.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS events").
			WillReturnResult(pgxmock.NewResult("CREATE", 0))

		store := NewPostgresStore(mock)

		require.NoError(t, store.EnsureSchema(ctx))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		defer mock.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS events").
			WillReturnError(errors.New("permission denied"))

		store := NewPostgresStore(mock)

		require.Error(t, store.EnsureSchema(ctx))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Save(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	events := []core.Event{
		{
			ID:    "uuid-1",
			Title: "Test",
			Start: now,
			End:   now.Add(time.Hour),
			Color: core.ColorBlue,
		},
		{
			ID:          "uuid-2",
			Title:       "Recurring",
			Start:       now,
			End:         now.Add(time.Hour),
			Color:       core.ColorGreen,
			IsRecurring: true,
			Recurrence:  &core.RecurrenceRule{Type: core.RuleDaily, Interval: 1},
		},
	}

	tests := []struct {
		name      string
		events    []core.Event
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   bool
	}{
		{
			name:   "success",
			events: events,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM events").
					WillReturnResult(pgxmock.NewResult("DELETE", 2))
				mock.ExpectExec("INSERT INTO events").
					WithArgs("uuid-1", "Test", "", now, now.Add(time.Hour), "blue", false, []byte(nil), 0).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec("INSERT INTO events").
					WithArgs("uuid-2", "Recurring", "", now, now.Add(time.Hour), "green", true, pgxmock.AnyArg(), 1).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
			wantErr: false,
		},
		{
			name:   "empty collection still clears the table",
			events: nil,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM events").
					WillReturnResult(pgxmock.NewResult("DELETE", 2))
				mock.ExpectCommit()
			},
			wantErr: false,
		},
		{
			name:   "begin failure",
			events: events,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("begin error"))
			},
			wantErr: true,
		},
		{
			name:   "delete failure rolls back",
			events: events,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM events").
					WillReturnError(errors.New("delete error"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
		{
			name:   "insert failure rolls back",
			events: events,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM events").
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
				mock.ExpectExec("INSERT INTO events").
					WithArgs("uuid-1", "Test", "", now, now.Add(time.Hour), "blue", false, []byte(nil), 0).
					WillReturnError(errors.New("insert error"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
		{
			name:   "commit failure",
			events: nil,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM events").
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
				mock.ExpectCommit().WillReturnError(errors.New("commit error"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)

			defer mock.Close()

			tt.mockSetup(mock)

			store := NewPostgresStore(mock)
			err = store.Save(ctx, tt.events)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_Load(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	columns := []string{"id", "title", "description", "start_time", "end_time", "color", "is_recurring", "recurrence"}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		defer mock.Close()

		rows := pgxmock.NewRows(columns).
			AddRow("uuid-1", "Test", "Desc", now, now.Add(time.Hour), "blue", false, []byte(nil)).
			AddRow("uuid-2", "Recurring", "", now, now.Add(time.Hour), "green", true,
				[]byte(`{"type":"daily","interval":2,"endDate":null,"count":null}`))
		mock.ExpectQuery("SELECT (.+) FROM events ORDER BY position").
			WillReturnRows(rows)

		store := NewPostgresStore(mock)

		events, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)

		assert.Equal(t, "uuid-1", events[0].ID)
		assert.Nil(t, events[0].Recurrence)

		assert.Equal(t, "uuid-2", events[1].ID)
		require.NotNil(t, events[1].Recurrence)
		assert.Equal(t, core.RuleDaily, events[1].Recurrence.Type)
		assert.Equal(t, 2, events[1].Recurrence.Interval)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		defer mock.Close()

		mock.ExpectQuery("SELECT (.+) FROM events ORDER BY position").
			WillReturnError(errors.New("connection reset"))

		store := NewPostgresStore(mock)

		_, err = store.Load(ctx)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed recurrence", func(t *testing.T) {
		t.Parallel()

		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		defer mock.Close()

		rows := pgxmock.NewRows(columns).
			AddRow("uuid-1", "Broken", "", now, now.Add(time.Hour), "blue", true, []byte(`{not json`))
		mock.ExpectQuery("SELECT (.+) FROM events ORDER BY position").
			WillReturnRows(rows)

		store := NewPostgresStore(mock)

		_, err = store.Load(ctx)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
