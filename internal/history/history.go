// Package history keeps a local record of exported documents in SQLite.
// Only the most recent MaxItems records are kept.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/alnah/go-proofa/internal/document"
)

// MaxItems is the default number of records kept.
const MaxItems = 20

// Sentinel errors for history operations.
var (
	ErrNotFound = errors.New("history record not found")
	ErrStore    = errors.New("history store failed")
)

// Record is one exported document.
type Record struct {
	ID        string
	Kind      document.Kind
	Template  document.Template
	Payload   json.RawMessage
	CreatedAt time.Time
	// Path of the exported file, if one was written.
	FilePath string
}

// Decode returns the stored payload.
func (r Record) Decode() (document.Payload, error) {
	return document.DecodeJSON(r.Kind, r.Payload)
}

// NewRecord builds a record for p rendered with t.
func NewRecord(p document.Payload, t document.Template, filePath string) (Record, error) {
	data, err := document.EncodeJSON(p)
	if err != nil {
		return Record{}, err
	}
	return Record{Kind: p.Kind(), Template: t, Payload: data, FilePath: filePath}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	kind       TEXT NOT NULL,
	template   TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TEXT NOT NULL,
	file_path  TEXT NOT NULL DEFAULT ''
)`

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}

// Store is a SQLite-backed history. Safe for concurrent use.
type Store struct {
	db  *sql.DB
	max int
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxItems sets how many records are kept. Values below 1 are ignored.
func WithMaxItems(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.max = n
		}
	}
}

// WithClock sets the clock used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrStore, path, err)
	}
	// One writer keeps pruning and inserts ordered.
	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %s: %v", ErrStore, pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: creating schema: %v", ErrStore, err)
	}

	s := &Store{db: db, max: MaxItems, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores rec as the newest record and drops records beyond the limit.
// ID and CreatedAt are assigned when empty.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return Record{}, fmt.Errorf("%w: generating id: %v", ErrStore, err)
		}
		rec.ID = id.String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrStore, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, kind, template, payload, created_at, file_path) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), string(rec.Template), string(rec.Payload),
		rec.CreatedAt.Format(time.RFC3339Nano), rec.FilePath,
	)
	if err != nil {
		return Record{}, fmt.Errorf("%w: inserting: %v", ErrStore, err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM documents WHERE seq NOT IN (SELECT seq FROM documents ORDER BY seq DESC LIMIT ?)`,
		s.max,
	)
	if err != nil {
		return Record{}, fmt.Errorf("%w: pruning: %v", ErrStore, err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return rec, nil
}

// List returns all records, newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, template, payload, created_at, file_path FROM documents ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return out, nil
}

// Get returns the record with id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, template, payload, created_at, file_path FROM documents WHERE id = ?`, id)
	rec, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// Delete removes the record with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Record, error) {
	var (
		rec                     Record
		kind, tmpl, payload, at string
	)
	if err := row.Scan(&rec.ID, &kind, &tmpl, &payload, &at, &rec.FilePath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("%w: %v", ErrStore, err)
	}
	created, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return Record{}, fmt.Errorf("%w: record %s: bad timestamp %q", ErrStore, rec.ID, at)
	}
	rec.Kind = document.Kind(kind)
	rec.Template = document.Template(tmpl)
	rec.Payload = json.RawMessage(payload)
	rec.CreatedAt = created
	return rec, nil
}
