package simulated

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

func fastEngine(seed int64, opts ...Option) *Engine {
	return NewEngine(append([]Option{WithSeed(seed), WithDelays(0, 0)}, opts...)...)
}

func TestAnalyze_ShapeInvariants(t *testing.T) {
	known := map[string]bool{}
	for _, typ := range documents.IssueTypes {
		known[typ] = true
	}

	for seed := int64(0); seed < 200; seed++ {
		e := fastEngine(seed)
		res, err := e.Analyze(context.Background(), documents.NewFileDescriptor("memo.txt", []byte("hello")))
		require.NoError(t, err)

		assert.Equal(t, "memo.txt", res.Name)
		assert.Equal(t, documents.StatusCompleted, res.Status)
		assert.NotEmpty(t, res.ID)

		require.GreaterOrEqual(t, len(res.Sections), 2)
		require.LessOrEqual(t, len(res.Sections), 4)
		for i, s := range res.Sections {
			assert.Equal(t, documents.PageRange{5*i + 1, 5*i + 5}, s.PageRange)
			assert.Equal(t, fmt.Sprintf("Section %d", i+1), s.Title)
			assert.True(t, s.Enabled)
			assert.True(t, s.PageRange.Valid())
		}

		require.GreaterOrEqual(t, len(res.Issues), 1)
		require.LessOrEqual(t, len(res.Issues), 3)
		for _, is := range res.Issues {
			assert.True(t, known[is.Type], "unexpected type %q", is.Type)
			assert.GreaterOrEqual(t, is.Count, 1)
			assert.LessOrEqual(t, is.Count, 5)
			for _, ref := range is.Sections {
				sec := res.Section(ref.SectionID)
				require.NotNil(t, sec, "dangling section id %s", ref.SectionID)
				assert.True(t, sec.PageRange.Contains(ref.PageNumber),
					"page %d outside %v", ref.PageNumber, sec.PageRange)
				assert.Contains(t, ref.Context, is.Type)
			}
		}
	}
}

func TestAnalyze_SameSeedSameOutput(t *testing.T) {
	counter := func() func() string {
		n := 0
		return func() string { n++; return fmt.Sprintf("id-%d", n) }
	}
	f := documents.NewFileDescriptor("a.pdf", nil)

	a, err := fastEngine(42, WithIDGenerator(counter())).Analyze(context.Background(), f)
	require.NoError(t, err)
	b, err := fastEngine(42, WithIDGenerator(counter())).Analyze(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

type inspectorFunc func(ctx context.Context, f documents.FileDescriptor) error

func (fn inspectorFunc) Inspect(ctx context.Context, f documents.FileDescriptor) error {
	return fn(ctx, f)
}

func TestAnalyze_InspectorFailure(t *testing.T) {
	corrupt := errors.New("corrupt header")
	e := fastEngine(1, WithInspector(inspectorFunc(func(context.Context, documents.FileDescriptor) error {
		return corrupt
	})))

	res, err := e.Analyze(context.Background(), documents.NewFileDescriptor("broken.pdf", []byte("x")))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, corrupt)
	assert.Contains(t, err.Error(), "broken.pdf")
}

func TestAnalyze_HonoursCancellation(t *testing.T) {
	e := NewEngine(WithSeed(1), WithDelays(time.Hour, time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := e.Analyze(ctx, documents.NewFileDescriptor("a.txt", nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAnalyze_ConcurrentUse(t *testing.T) {
	e := fastEngine(7)
	errs := make(chan error, 16)
	for i := 0; i < cap(errs); i++ {
		go func() {
			_, err := e.Analyze(context.Background(), documents.NewFileDescriptor("c.txt", nil))
			errs <- err
		}()
	}
	for i := 0; i < cap(errs); i++ {
		require.NoError(t, <-errs)
	}
}
