package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"calendar-engine/core"
)

// PgxIface is the pool surface the Postgres port needs; satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists the collection in Postgres, replacing all rows in a
// single transaction per save so a rejected or interrupted write never leaves
// a partial collection behind.
type PostgresStore struct {
	tracer  trace.Tracer
	metrics *DBMetrics
	pool    PgxIface
}

func NewPostgresStore(pool PgxIface) *PostgresStore {
	return &PostgresStore{
		tracer:  otel.GetTracerProvider().Tracer("calendar-engine/persistence"),
		metrics: NewDBMetrics(),
		pool:    pool,
	}
}

// EnsureSchema creates the events table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL,
			color TEXT NOT NULL DEFAULT 'blue',
			is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
			recurrence JSONB,
			position INTEGER NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	return nil
}

// Load reads the collection in stored order.
func (s *PostgresStore) Load(ctx context.Context) ([]core.Event, error) {
	start := time.Now()

	var err error

	defer func() { s.metrics.Observe(ctx, "load_events", start, err) }()

	ctx, span := s.tracer.Start(ctx, "PostgresStore.Load")
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT id, title, description, start_time, end_time, color, is_recurring, recurrence
		 FROM events ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []core.Event

	for rows.Next() {
		var (
			e          core.Event
			color      string
			recurrence []byte
		)

		err = rows.Scan(&e.ID, &e.Title, &e.Description, &e.Start, &e.End, &color, &e.IsRecurring, &recurrence)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		e.Color = core.Color(color)

		if len(recurrence) > 0 {
			if err = json.Unmarshal(recurrence, &e.Recurrence); err != nil {
				return nil, fmt.Errorf("failed to decode recurrence for event %s: %w", e.ID, err)
			}
		}

		events = append(events, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return events, nil
}

// Save replaces the stored collection in one transaction.
func (s *PostgresStore) Save(ctx context.Context, events []core.Event) error {
	start := time.Now()

	var err error

	defer func() { s.metrics.Observe(ctx, "save_events", start, err) }()

	ctx, span := s.tracer.Start(ctx, "PostgresStore.Save")
	defer span.End()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM events`); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to clear events: %w", err)
	}

	for i, e := range events {
		var recurrence []byte

		if e.Recurrence != nil {
			recurrence, err = json.Marshal(e.Recurrence)
			if err != nil {
				_ = tx.Rollback(ctx)
				return fmt.Errorf("failed to encode recurrence for event %s: %w", e.ID, err)
			}
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO events (id, title, description, start_time, end_time, color, is_recurring, recurrence, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.ID, e.Title, e.Description, e.Start, e.End, string(e.Color), e.IsRecurring, recurrence, i)
		if err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to insert event %s: %w", e.ID, err)
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type DBMetrics struct {
	qTotal   metric.Int64Counter
	qErrors  metric.Int64Counter
	qLatency metric.Float64Histogram
}

func NewDBMetrics() *DBMetrics {
	meter := otel.Meter("calendar-engine/persistence")

	qTotal, _ := meter.Int64Counter("db.query.total")
	qErrors, _ := meter.Int64Counter("db.query.errors.total")
	qLatency, _ := meter.Float64Histogram("db.query.duration.ms")

	return &DBMetrics{qTotal: qTotal, qErrors: qErrors, qLatency: qLatency}
}

func (m *DBMetrics) Observe(ctx context.Context, op string, start time.Time, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", "postgres"),
		attribute.String("db.operation", op),
	}

	m.qTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	ms := float64(time.Since(start).Milliseconds())
	m.qLatency.Record(ctx, ms, metric.WithAttributes(attrs...))

	if err != nil {
		m.qErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
