package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"calendar-engine/core"
)

// SQLiteStore persists the collection in a single-file database. The
// recurrence rule is serialized into a JSON column; a position column
// preserves collection order across reloads.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// DELETE journal mode for immediate writes, single connection to avoid
	// pooling issues with the file handle.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=DELETE&_synchronous=FULL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		start_time DATETIME NOT NULL,
		end_time DATETIME NOT NULL,
		color TEXT DEFAULT 'blue',
		is_recurring INTEGER DEFAULT 0,
		recurrence TEXT,
		position INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_position ON events(position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Load reads the collection in stored order.
func (s *SQLiteStore) Load(ctx context.Context) ([]core.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, start_time, end_time, color, is_recurring, recurrence
		 FROM events ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []core.Event

	for rows.Next() {
		var (
			e           core.Event
			description sql.NullString
			color       sql.NullString
			recurrence  sql.NullString
		)

		err := rows.Scan(&e.ID, &e.Title, &description, &e.Start, &e.End, &color, &e.IsRecurring, &recurrence)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		e.Description = description.String
		e.Color = core.Color(color.String)

		if recurrence.String != "" && recurrence.String != "null" {
			if err := json.Unmarshal([]byte(recurrence.String), &e.Recurrence); err != nil {
				return nil, fmt.Errorf("failed to decode recurrence for event %s: %w", e.ID, err)
			}
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return events, nil
}

// Save replaces the stored collection in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, events []core.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}

	for i, e := range events {
		var recurrence any
		if e.Recurrence != nil {
			data, err := json.Marshal(e.Recurrence)
			if err != nil {
				return fmt.Errorf("failed to encode recurrence for event %s: %w", e.ID, err)
			}

			recurrence = string(data)
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, title, description, start_time, end_time, color, is_recurring, recurrence, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Title, e.Description, e.Start, e.End, string(e.Color), e.IsRecurring, recurrence, i)
		if err != nil {
			return fmt.Errorf("failed to insert event %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
