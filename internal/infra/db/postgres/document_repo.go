package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/bryanwahyu/insights-workspace/internal/infra/db"
	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_documents (
  seq         BIGSERIAL PRIMARY KEY,
  session_id  TEXT NOT NULL,
  id          TEXT NOT NULL,
  name        TEXT NOT NULL,
  status      TEXT NOT NULL,
  uploaded_at TIMESTAMPTZ NOT NULL,
  payload     JSONB NOT NULL,
  UNIQUE (session_id, id)
);
CREATE INDEX IF NOT EXISTS idx_session_documents_session ON session_documents (session_id, seq);`

type DocumentRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewDocumentRepository(conn *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: conn}
}

func (r *DocumentRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}
	return nil
}

// Append insert batch dalam satu transaksi
func (r *DocumentRepository) Append(ctx context.Context, session string, results []domain.Result) error {
	const q = `
INSERT INTO session_documents
(session_id, id, name, status, uploaded_at, payload)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (session_id, id) DO UPDATE SET
 status = EXCLUDED.status,
 payload = EXCLUDED.payload;`

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, res := range results {
		payload, err := db.EncodeResult(res)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q,
			session, string(res.ID), db.StringOrDash(res.Name), db.StringOrDash(string(res.Status)),
			res.UploadedAt.UTC(), string(payload),
		); err != nil {
			return fmt.Errorf("insert %s: %w", res.ID, err)
		}
	}
	return tx.Commit()
}

func (r *DocumentRepository) List(ctx context.Context, session string) ([]domain.Result, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM session_documents WHERE session_id=$1 ORDER BY seq`, session)
	if err != nil {
		return nil, err
	}
	return db.ScanResults(rows)
}

func (r *DocumentRepository) Get(ctx context.Context, session string, id domain.DocumentID) (*domain.Result, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT payload FROM session_documents WHERE session_id=$1 AND id=$2 LIMIT 1`, session, string(id))
	return db.ScanOne(row, id)
}

func (r *DocumentRepository) Discard(ctx context.Context, session string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_documents WHERE session_id=$1`, session)
	return err
}

func (r *DocumentRepository) Purge(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `TRUNCATE session_documents`)
	return err
}

func (r *DocumentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *DocumentRepository) Check(ctx context.Context) error { return r.Ping(ctx) }
