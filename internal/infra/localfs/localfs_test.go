package localfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "memo.txt")
	require.NoError(t, os.WriteFile(small, []byte("hello"), 0o644))

	big := filepath.Join(dir, "huge.pdf")
	f, err := os.Create(big)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(domain.MaxFileSize+1))
	require.NoError(t, f.Close())

	files, err := Load([]string{small, big})
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "memo.txt", files[0].Name)
	assert.Equal(t, int64(5), files[0].SizeBytes)
	assert.Equal(t, []byte("hello"), files[0].Content)

	assert.Equal(t, "huge.pdf", files[1].Name)
	assert.Equal(t, domain.MaxFileSize+1, files[1].SizeBytes)
	assert.Nil(t, files[1].Content)
	assert.ErrorIs(t, domain.Validate(files), domain.ErrTooLarge)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load([]string{filepath.Join(dir, "missing.txt")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load([]string{dir})
	assert.ErrorContains(t, err, "directory")
}
