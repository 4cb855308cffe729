// Package memory keeps session result sets in process memory. It is the
// default store: everything is gone when the process exits.
package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

type DocumentRepo struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Result
}

func NewDocumentRepo() *DocumentRepo {
	return &DocumentRepo{sessions: make(map[string][]domain.Result)}
}

func (r *DocumentRepo) Append(ctx context.Context, session string, results []domain.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session] = append(r.sessions[session], results...)
	return nil
}

// List returns a copy so callers can sort and filter freely.
func (r *DocumentRepo) List(ctx context.Context, session string) ([]domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.sessions[session]
	out := make([]domain.Result, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *DocumentRepo) Get(ctx context.Context, session string, id domain.DocumentID) (*domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.sessions[session] {
		if res.ID == id {
			doc := res
			return &doc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
}

func (r *DocumentRepo) Discard(ctx context.Context, session string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, session)
	return nil
}

func (r *DocumentRepo) Purge(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[string][]domain.Result)
	return nil
}

func (r *DocumentRepo) Ping(ctx context.Context) error { return nil }

// Check lets the repo double as a health checker.
func (r *DocumentRepo) Check(ctx context.Context) error { return r.Ping(ctx) }
