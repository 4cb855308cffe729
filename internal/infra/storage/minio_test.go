package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

var (
	_ documents.BlobStore = (*Store)(nil)
	_ documents.BlobStore = Noop{}
)

func TestURL(t *testing.T) {
	s, err := newStore(Options{Endpoint: "minio.local:9000", Bucket: "uploads", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "http://minio.local:9000/uploads/sessions/a/b/memo.pdf", s.URL("sessions/a/b/memo.pdf"))

	s, err = newStore(Options{Endpoint: "s3.example.com", Bucket: "uploads", UseSSL: true})
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/uploads/x", s.URL("x"))
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var n Noop
	assert.NoError(t, n.Put(ctx, "k", []byte("x"), "text/plain"))
	assert.NoError(t, n.RemovePrefix(ctx, "sessions/"))
	assert.NoError(t, n.Check(ctx))
}
