package mysql

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
  seq         BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  session_id  VARCHAR(64) NOT NULL,
  id          VARCHAR(64) NOT NULL,
  name        VARCHAR(512) NOT NULL,
  status      VARCHAR(16) NOT NULL,
  uploaded_at DATETIME(6) NOT NULL,
  payload     JSON NOT NULL,
  UNIQUE KEY uq_session_documents (session_id, id),
  KEY idx_session_documents_session (session_id, seq)
)`

type DocumentRepository struct {
	db *sql.DB
	// appends are serialised so seq never interleaves two batches
	mu sync.Mutex
}

func NewDocumentRepository(conn *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: conn}
}

// Migrate creates the result table if needed.
func (r *DocumentRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate mysql: %w", err)
	}
	return nil
}

// Append insert batch dalam satu transaksi
func (r *DocumentRepository) Append(ctx context.Context, session string, results []domain.Result) error {
	const q = `
INSERT INTO session_documents
(session_id, id, name, status, uploaded_at, payload)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status), payload=VALUES(payload);
`
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
			res.UploadedAt.UTC(), payload,
		); err != nil {
			return fmt.Errorf("insert %s: %w", res.ID, err)
		}
	}
	return tx.Commit()
}

// List per session, urut sesuai insert
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
