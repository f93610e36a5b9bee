// Package sqlstore implements storage.Repository on database/sql, with SQLite
// and PostgreSQL backends.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/five82/kanban/internal/board"
	"github.com/five82/kanban/internal/storage"
)

const queryTimeout = 5 * time.Second

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

func (d dialect) String() string {
	if d == dialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// rebind rewrites ? placeholders into the dialect's form.
func (d dialect) rebind(query string) string {
	if d != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Store is a storage.Repository backed by a SQL database.
type Store struct {
	db      *sql.DB
	dialect dialect
	tracer  trace.Tracer

	mu        sync.Mutex
	lastStamp int64
}

// Ensure Store implements storage.Repository at compile time.
var _ storage.Repository = (*Store)(nil)

func newStore(db *sql.DB, d dialect) *Store {
	return &Store{
		db:      db,
		dialect: d,
		tracer:  otel.Tracer("kanban/sqlstore"),
	}
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, context.CancelFunc, trace.Span) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	ctx, span := s.tracer.Start(ctx, "repository."+op)
	span.SetAttributes(append(attrs, attribute.String("db.system", s.dialect.String()))...)
	return ctx, cancel, span
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (s *Store) List(ctx context.Context) ([]board.Item, error) {
	ctx, cancel, span := s.start(ctx, "List")
	defer cancel()
	defer span.End()

	rows, err := s.db.QueryContext(ctx, `SELECT id, text, list_id FROM items ORDER BY created_at, id`)
	if err != nil {
		fail(span, err)
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []board.Item
	for rows.Next() {
		var it board.Item
		if err := rows.Scan(&it.ID, &it.Text, &it.ListID); err != nil {
			fail(span, err)
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		fail(span, err)
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	span.SetAttributes(attribute.Int("items.count", len(items)))
	return items, nil
}

func (s *Store) Create(ctx context.Context, item board.Item) error {
	ctx, cancel, span := s.start(ctx, "Create",
		attribute.String("item.id", item.ID),
		attribute.String("item.list_id", item.ListID),
	)
	defer cancel()
	defer span.End()

	stamp := s.stamp()
	query := s.dialect.rebind(`INSERT INTO items (id, text, list_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, item.ID, item.Text, item.ListID, stamp, stamp); err != nil {
		fail(span, err)
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, id string, update storage.Update) (board.Item, error) {
	ctx, cancel, span := s.start(ctx, "Update", attribute.String("item.id", id))
	defer cancel()
	defer span.End()

	var (
		sets []string
		args []any
	)
	if update.ListID != nil {
		sets = append(sets, "list_id = ?")
		args = append(args, *update.ListID)
	}
	if update.Text != nil {
		sets = append(sets, "text = ?")
		args = append(args, *update.Text)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.stamp(), id)

	query := s.dialect.rebind(`UPDATE items SET ` + strings.Join(sets, ", ") +
		` WHERE id = ? RETURNING id, text, list_id`)

	var it board.Item
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&it.ID, &it.Text, &it.ListID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			span.SetAttributes(attribute.Bool("not_found", true))
			return board.Item{}, storage.ErrItemNotFound
		}
		fail(span, err)
		return board.Item{}, fmt.Errorf("failed to update item: %w", err)
	}
	return it, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel, span := s.start(ctx, "Delete", attribute.String("item.id", id))
	defer cancel()
	defer span.End()

	result, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM items WHERE id = ?`), id)
	if err != nil {
		fail(span, err)
		return fmt.Errorf("failed to delete item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		fail(span, err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		span.SetAttributes(attribute.Bool("not_found", true))
		return storage.ErrItemNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// stamp returns a strictly increasing unix-nanosecond timestamp so creation
// order survives items created within the same clock tick.
func (s *Store) stamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UnixNano()
	if now <= s.lastStamp {
		now = s.lastStamp + 1
	}
	s.lastStamp = now
	return now
}
