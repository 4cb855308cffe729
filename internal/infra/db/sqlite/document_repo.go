// Package sqlite stores session result sets in an embedded SQLite database
// (pure Go driver, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/bryanwahyu/insights-workspace/internal/infra/db"
	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_documents (
  seq         INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id  TEXT NOT NULL,
  id          TEXT NOT NULL,
  name        TEXT NOT NULL,
  status      TEXT NOT NULL,
  uploaded_at TEXT NOT NULL,
  payload     BLOB NOT NULL,
  UNIQUE (session_id, id)
);
CREATE INDEX IF NOT EXISTS idx_session_documents_session ON session_documents (session_id, seq);`

// Open opens (or creates) the database at path; ":memory:" is allowed.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" a single database and serialises writers
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

type DocumentRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewDocumentRepository(conn *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: conn}
}

// Migrate creates the result table if needed.
func (r *DocumentRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}

// Append inserts the batch in one transaction; seq preserves slice order.
func (r *DocumentRepository) Append(ctx context.Context, session string, results []domain.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO session_documents (session_id, id, name, status, uploaded_at, payload)
VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, res := range results {
		payload, err := db.EncodeResult(res)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			session, string(res.ID), db.StringOrDash(res.Name), db.StringOrDash(string(res.Status)),
			res.UploadedAt.UTC().Format("2006-01-02T15:04:05.000000000Z"), payload,
		); err != nil {
			return fmt.Errorf("insert %s: %w", res.ID, err)
		}
	}
	return tx.Commit()
}

func (r *DocumentRepository) List(ctx context.Context, session string) ([]domain.Result, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM session_documents WHERE session_id=? ORDER BY seq`, session)
	if err != nil {
		return nil, err
	}
	return db.ScanResults(rows)
}

func (r *DocumentRepository) Get(ctx context.Context, session string, id domain.DocumentID) (*domain.Result, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT payload FROM session_documents WHERE session_id=? AND id=? LIMIT 1`, session, string(id))
	return db.ScanOne(row, id)
}

func (r *DocumentRepository) Discard(ctx context.Context, session string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_documents WHERE session_id=?`, session)
	return err
}

func (r *DocumentRepository) Purge(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_documents`)
	return err
}

func (r *DocumentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Check lets the repo double as a health checker.
func (r *DocumentRepository) Check(ctx context.Context) error { return r.Ping(ctx) }
