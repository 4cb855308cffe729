// Package simulated is the stand-in analysis engine: it fabricates sections
// and issues at random after artificial delays. It implements
// documents.Analyzer so a real extraction and classification pipeline can
// replace it without touching callers.
package simulated

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

const (
	DefaultSplitDelay   = time.Second
	DefaultAnalyzeDelay = 2 * time.Second

	pagesPerSection = 5
	minSections     = 2
	maxSections     = 4
	minIssues       = 1
	maxIssues       = 3
	maxIssueCount   = 5
)

type Engine struct {
	mu         sync.Mutex
	randSource *rand.Rand

	splitDelay   time.Duration
	analyzeDelay time.Duration
	inspector    documents.Inspector
	newID        func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes the generated output reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.randSource = rand.New(rand.NewSource(seed)) }
}

// WithDelays overrides the artificial split and analysis latencies.
func WithDelays(split, analyze time.Duration) Option {
	return func(e *Engine) {
		e.splitDelay = split
		e.analyzeDelay = analyze
	}
}

// WithInspector runs an integrity probe before any section is derived.
func WithInspector(in documents.Inspector) Option {
	return func(e *Engine) { e.inspector = in }
}

// WithIDGenerator replaces the uuid-based id source.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		// dedicated source, guarded by mu
		randSource:   rand.New(rand.NewSource(time.Now().UnixNano())),
		splitDelay:   DefaultSplitDelay,
		analyzeDelay: DefaultAnalyzeDelay,
		newID:        func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Analyze implements documents.Analyzer.
func (e *Engine) Analyze(ctx context.Context, file documents.FileDescriptor) (*documents.Result, error) {
	if e.inspector != nil {
		if err := e.inspector.Inspect(ctx, file); err != nil {
			return nil, fmt.Errorf("inspect %s: %w", file.Name, err)
		}
	}

	sections, err := e.splitDocument(ctx)
	if err != nil {
		return nil, err
	}

	if err := sleep(ctx, e.analyzeDelay); err != nil {
		return nil, err
	}

	return &documents.Result{
		ID:       documents.DocumentID(e.newID()),
		Name:     file.Name,
		Sections: sections,
		Issues:   e.deriveIssues(sections),
		Status:   documents.StatusCompleted,
	}, nil
}

// splitDocument produces 2-4 synthetic sections of five pages each.
func (e *Engine) splitDocument(ctx context.Context) ([]documents.Section, error) {
	if err := sleep(ctx, e.splitDelay); err != nil {
		return nil, err
	}

	n := e.between(minSections, maxSections)
	sections := make([]documents.Section, n)
	for i := range sections {
		sections[i] = documents.Section{
			ID:        e.newID(),
			Title:     fmt.Sprintf("Section %d", i+1),
			Content:   fmt.Sprintf("Sample content for section %d...", i+1),
			PageRange: documents.PageRange{i*pagesPerSection + 1, (i + 1) * pagesPerSection},
			Enabled:   true,
		}
	}
	return sections, nil
}

func (e *Engine) deriveIssues(sections []documents.Section) []documents.Issue {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := minIssues + e.randSource.Intn(maxIssues-minIssues+1)
	issues := make([]documents.Issue, n)
	for i := range issues {
		typ := documents.IssueTypes[e.randSource.Intn(len(documents.IssueTypes))]

		refs := []documents.SectionRef{}
		for _, s := range sections {
			if e.randSource.Float64() <= 0.5 {
				continue
			}
			span := s.PageRange.End() - s.PageRange.Start() + 1
			refs = append(refs, documents.SectionRef{
				SectionID:  s.ID,
				Context:    fmt.Sprintf("Example context for %s in section %q", typ, s.Title),
				PageNumber: s.PageRange.Start() + e.randSource.Intn(span),
			})
		}

		issues[i] = documents.Issue{
			Type:     typ,
			Count:    1 + e.randSource.Intn(maxIssueCount),
			Sections: refs,
		}
	}
	return issues
}

// between returns a uniform integer in [lo, hi].
func (e *Engine) between(lo, hi int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return lo + e.randSource.Intn(hi-lo+1)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
