package documents

import (
	"context"
	"sync"
	"time"

	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

// Session is one dashboard's isolated result set. Results are owned by the
// repository; the session only tracks the gate and in-flight batches.
type Session struct {
	ID        string
	CreatedAt time.Time

	gate domain.Gate

	// ctx is cancelled when the session ends
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	pending []domain.Result
	batches sync.WaitGroup
}

// SessionStatus is the snapshot served to pollers.
type SessionStatus struct {
	ID              string          `json:"id"`
	CreatedAt       time.Time       `json:"createdAt"`
	Documents       int             `json:"documents"`
	Analyzing       bool            `json:"analyzing"`
	Pending         []domain.Result `json:"pending"`
	LastUploadError string          `json:"lastUploadError,omitempty"`
}

func newSession(id string, now time.Time) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{ID: id, CreatedAt: now, ctx: ctx, cancel: cancel}
}

// admit registers a batch as in flight. It fails once the session is closed.
func (s *Session) admit(placeholders []domain.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.batches.Add(1)
	s.pending = append(s.pending, placeholders...)
	return true
}

// settle drops a finished batch from the pending list.
func (s *Session) settle(placeholders []domain.Result) {
	done := make(map[domain.DocumentID]bool, len(placeholders))
	for _, p := range placeholders {
		done[p.ID] = true
	}

	s.mu.Lock()
	kept := s.pending[:0]
	for _, p := range s.pending {
		if !done[p.ID] {
			kept = append(kept, p)
		}
	}
	s.pending = kept
	s.mu.Unlock()

	s.batches.Done()
}

func (s *Session) pendingSnapshot() []domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Result, len(s.pending))
	copy(out, s.pending)
	return out
}

func (s *Session) findPending(id domain.DocumentID) *domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pending {
		if s.pending[i].ID == id {
			p := s.pending[i]
			return &p
		}
	}
	return nil
}

// close stops new batches, cancels running ones and waits for them.
func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.batches.Wait()
}
