package mysql

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

// Runs only against a real server: INSIGHTS_MYSQL_DSN=user:pass@tcp(host:3306)/db?parseTime=true
func TestDocumentRepository_Integration(t *testing.T) {
	dsn := os.Getenv("INSIGHTS_MYSQL_DSN")
	if dsn == "" {
		t.Skip("INSIGHTS_MYSQL_DSN not set")
	}
	ctx := context.Background()
	conn, err := Connect(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close()

	repo := NewDocumentRepository(conn)
	require.NoError(t, repo.Migrate(ctx))
	session := "it-" + time.Now().Format("150405.000000")
	defer repo.Discard(ctx, session)

	at := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.Append(ctx, session, []domain.Result{
		{ID: "b", Name: "b.pdf", Status: domain.StatusCompleted, UploadedAt: at},
		{ID: "a", Name: "a.pdf", Status: domain.StatusError, Error: "bad", UploadedAt: at},
	}))

	got, err := repo.List(ctx, session)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.DocumentID("b"), got[0].ID)
	assert.Equal(t, "bad", got[1].Error)

	_, err = repo.Get(ctx, session, "zzz")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}
