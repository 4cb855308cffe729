package documents

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/insights-workspace/internal/application"
	"github.com/bryanwahyu/insights-workspace/internal/domain/advice"
	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
	"github.com/bryanwahyu/insights-workspace/internal/logger"
	"github.com/bryanwahyu/insights-workspace/internal/metrics"
)

var ErrServiceClosed = errors.New("service is shutting down")

// Service implements use-cases untuk analisa dokumen.
// Service is safe for concurrent use; the zero value needs Repo and Analyzer.
type Service struct {
	Repo     domain.Repository
	Analyzer domain.Analyzer
	Blobs    domain.BlobStore // optional upload staging
	Clock    application.Clock
	Log      *logger.Logger
	Metrics  *metrics.Metrics

	// MaxConcurrent bounds analyses per batch; 0 means unbounded.
	MaxConcurrent int
	NewID         func() string

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

//
// ==== SESSIONS ====
//

// CreateSession opens an empty result set.
func (s *Service) CreateSession(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrServiceClosed
	}
	if s.sessions == nil {
		s.sessions = make(map[string]*Session)
	}

	sess := newSession(s.newID(), s.now())
	s.sessions[sess.ID] = sess
	s.Metrics.SessionOpened()
	s.log().Info().Str("session", sess.ID).Msg("session opened")
	return sess, nil
}

// Status returns the session's counters, in-flight placeholders and the
// last upload error message.
func (s *Service) Status(ctx context.Context, sessionID string) (SessionStatus, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return SessionStatus{}, err
	}
	results, err := s.Repo.List(ctx, sess.ID)
	if err != nil {
		return SessionStatus{}, fmt.Errorf("list results: %w", err)
	}
	pending := sess.pendingSnapshot()
	return SessionStatus{
		ID:              sess.ID,
		CreatedAt:       sess.CreatedAt,
		Documents:       len(results),
		Analyzing:       len(pending) > 0,
		Pending:         pending,
		LastUploadError: sess.gate.LastError(),
	}, nil
}

// CloseSession ends a session: running batches are cancelled, then its
// results and staged uploads are discarded.
func (s *Service) CloseSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return s.teardown(ctx, sess)
}

func (s *Service) teardown(ctx context.Context, sess *Session) error {
	sess.close()
	s.Metrics.SessionClosed()

	var errs []error
	if err := s.Repo.Discard(ctx, sess.ID); err != nil {
		errs = append(errs, fmt.Errorf("discard results: %w", err))
	}
	if s.Blobs != nil {
		if err := s.Blobs.RemovePrefix(ctx, SessionPrefix(sess.ID)); err != nil {
			errs = append(errs, fmt.Errorf("remove staged uploads: %w", err))
		}
	}
	s.log().Info().Str("session", sess.ID).Msg("session closed")
	return errors.Join(errs...)
}

// Accepting reports whether new sessions and uploads are still taken.
func (s *Service) Accepting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Shutdown closes every session. It returns ctx.Err() if the sessions
// did not settle in time.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	open := make([]*Session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		open = append(open, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		var errs []error
		for _, sess := range open {
			if err := s.teardown(context.Background(), sess); err != nil {
				errs = append(errs, err)
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

//
// ==== UPLOAD & ANALYSIS ====
//

// Submit validates a batch and starts analysing it in the background. It
// returns one `analyzing` placeholder per file. On validation failure
// nothing is analysed and the session remembers the message.
func (s *Service) Submit(ctx context.Context, sessionID string, files []domain.FileDescriptor) ([]domain.Result, error) {
	placeholders, _, err := s.submit(ctx, sessionID, files)
	return placeholders, err
}

// SubmitAndWait is Submit followed by waiting for the batch to settle. The
// settled results come back in submission order. If ctx ends first the
// batch keeps running and ctx.Err() is returned.
func (s *Service) SubmitAndWait(ctx context.Context, sessionID string, files []domain.FileDescriptor) ([]domain.Result, error) {
	_, done, err := s.submit(ctx, sessionID, files)
	if err != nil {
		return nil, err
	}
	select {
	case results := <-done:
		return results, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) submit(ctx context.Context, sessionID string, files []domain.FileDescriptor) ([]domain.Result, <-chan []domain.Result, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, nil, err
	}

	if err := sess.gate.Validate(files); err != nil {
		s.Metrics.UploadRejected(rejectionReason(err))
		s.log().Warn().Str("session", sess.ID).Err(err).Msg("upload rejected")
		return nil, nil, err
	}

	now := s.now()
	placeholders := make([]domain.Result, len(files))
	for i, f := range files {
		placeholders[i] = domain.Result{
			ID:         domain.DocumentID(s.newID()),
			Name:       f.Name,
			Sections:   []domain.Section{},
			Issues:     []domain.Issue{},
			Status:     domain.StatusAnalyzing,
			UploadedAt: now,
		}
	}
	if !sess.admit(placeholders) {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}

	done := make(chan []domain.Result, 1)
	// jalankan batch di background, lepas dari context request
	go func() {
		done <- s.runBatch(sess, placeholders, files)
	}()

	out := make([]domain.Result, len(placeholders))
	copy(out, placeholders)
	return out, done, nil
}

// runBatch analyses every file concurrently and appends the settled batch
// to the repository exactly once, in submission order.
func (s *Service) runBatch(sess *Session, placeholders []domain.Result, files []domain.FileDescriptor) []domain.Result {
	defer sess.settle(placeholders)
	start := time.Now()
	log := s.log().With("session", sess.ID)

	results := make([]domain.Result, len(files))
	var g errgroup.Group
	if s.MaxConcurrent > 0 {
		g.SetLimit(s.MaxConcurrent)
	}
	for i := range files {
		i := i
		g.Go(func() error {
			results[i] = s.analyzeOne(sess, placeholders[i], files[i])
			return nil
		})
	}
	_ = g.Wait()
	s.Metrics.ObserveBatch(time.Since(start))

	if sess.ctx.Err() != nil {
		log.Debug().Int("files", len(files)).Msg("batch dropped, session ended")
		return results
	}
	if err := s.Repo.Append(context.Background(), sess.ID, results); err != nil {
		log.Error().Err(err).Int("files", len(files)).Msg("append batch")
		return results
	}
	log.Info().Int("files", len(files)).Dur("took", time.Since(start)).Msg("batch settled")
	return results
}

// analyzeOne never fails: errors and panics become an `error` result.
func (s *Service) analyzeOne(sess *Session, ph domain.Result, file domain.FileDescriptor) (res domain.Result) {
	s.Metrics.AnalysisStarted()
	defer func() {
		if r := recover(); r != nil {
			res = failed(ph, fmt.Errorf("analyzer panic: %v", r))
		}
		s.Metrics.AnalysisDone(string(res.Status))
		if res.Status == domain.StatusError {
			s.log().Warn().
				Str("session", sess.ID).
				Str("document", string(ph.ID)).
				Str("file", ph.Name).
				Str("error", res.Error).
				Msg("analysis failed")
		}
	}()

	if s.Blobs != nil {
		key := StagingKey(sess.ID, ph.ID, file.Name)
		if err := s.Blobs.Put(sess.ctx, key, file.Content, domain.ContentType(file.Name)); err != nil {
			return failed(ph, fmt.Errorf("stage upload: %w", err))
		}
	}

	out, err := s.Analyzer.Analyze(sess.ctx, file)
	if err != nil {
		return failed(ph, err)
	}
	if out == nil {
		return failed(ph, errors.New("analyzer returned no result"))
	}

	res = *out
	// identity comes from admission
	res.ID = ph.ID
	res.Name = ph.Name
	res.UploadedAt = ph.UploadedAt
	if !res.Status.Terminal() {
		res.Status = domain.StatusCompleted
	}
	if res.Sections == nil {
		res.Sections = []domain.Section{}
	}
	if res.Issues == nil {
		res.Issues = []domain.Issue{}
	}
	return res
}

func failed(ph domain.Result, err error) domain.Result {
	ph.Status = domain.StatusError
	ph.Error = err.Error()
	return ph
}

//
// ==== QUERIES ====
//

// List returns the session's settled results as the list view sees them.
func (s *Service) List(ctx context.Context, sessionID string, q domain.Query) ([]domain.Result, error) {
	results, err := s.results(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return domain.View(results, q), nil
}

// Stats aggregates the session's settled results.
func (s *Service) Stats(ctx context.Context, sessionID string) (domain.Stats, error) {
	results, err := s.results(ctx, sessionID)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.ComputeStats(results), nil
}

// Get returns a settled result or an in-flight placeholder.
func (s *Service) Get(ctx context.Context, sessionID string, id domain.DocumentID) (*domain.Result, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	doc, err := s.Repo.Get(ctx, sess.ID, id)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		return nil, err
	}
	if p := sess.findPending(id); p != nil {
		return p, nil
	}
	return nil, err
}

// Report renders the detail view for one document.
func (s *Service) Report(ctx context.Context, sessionID string, id domain.DocumentID) (advice.Report, error) {
	doc, err := s.Get(ctx, sessionID, id)
	if err != nil {
		return advice.Report{}, err
	}
	return advice.BuildReport(doc), nil
}

func (s *Service) results(ctx context.Context, sessionID string) ([]domain.Result, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	results, err := s.Repo.List(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

//
// ==== HELPERS ====
//

// SessionPrefix is the blob prefix owning a session's staged uploads.
func SessionPrefix(session string) string {
	return fmt.Sprintf("sessions/%s/", session)
}

// StagingKey is the blob key of one staged upload.
func StagingKey(session string, doc domain.DocumentID, name string) string {
	return fmt.Sprintf("%s%s/%s", SessionPrefix(session), doc, name)
}

func rejectionReason(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return string(ve.Kind)
	}
	return "empty_batch"
}

func (s *Service) session(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return application.SystemClock{}.Now()
	}
	return s.Clock.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.New().String()
}

func (s *Service) log() *logger.Logger {
	if s.Log == nil {
		return logger.Nop()
	}
	return s.Log.Component("analysis")
}
