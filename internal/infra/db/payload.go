// Package db holds the row encoding shared by the SQL result repositories.
// Each result is stored as one row; the JSON payload is authoritative and
// the scalar columns exist for ordering and lookups.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

// Table is the result table name used by every SQL adapter.
const Table = "session_documents"

// EncodeResult serialises a result for the payload column.
func EncodeResult(r domain.Result) ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode result %s: %w", r.ID, err)
	}
	return b, nil
}

// DecodeResult restores a result from its payload column.
func DecodeResult(payload []byte) (domain.Result, error) {
	var r domain.Result
	if err := json.Unmarshal(payload, &r); err != nil {
		return domain.Result{}, fmt.Errorf("decode result: %w", err)
	}
	if r.Sections == nil {
		r.Sections = []domain.Section{}
	}
	if r.Issues == nil {
		r.Issues = []domain.Issue{}
	}
	return r, nil
}

// ScanResults drains rows holding a single payload column.
func ScanResults(rows *sql.Rows) ([]domain.Result, error) {
	defer rows.Close()
	out := []domain.Result{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		r, err := DecodeResult(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ScanOne decodes a single payload row, mapping sql.ErrNoRows to
// domain.ErrDocumentNotFound.
func ScanOne(row *sql.Row, id domain.DocumentID) (*domain.Result, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
		}
		return nil, err
	}
	r, err := DecodeResult(payload)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// StringOrDash returns "-" when the input is empty/whitespace
func StringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
