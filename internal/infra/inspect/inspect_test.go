package inspect

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

func zipWith(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, n := range names {
		f, err := w.Create(n)
		require.NoError(t, err)
		_, err = f.Write([]byte("<xml/>"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestInspect(t *testing.T) {
	in := New()
	ctx := context.Background()

	cases := []struct {
		name    string
		file    string
		content []byte
		wantErr error
	}{
		{"plain text", "notes.txt", []byte("quarterly outlook"), nil},
		{"empty text", "empty.TXT", nil, nil},
		{"binary text", "notes.txt", []byte{0xff, 0xfe, 0xfd}, ErrCorrupt},
		{"docx", "memo.docx", zipWith(t, "[Content_Types].xml", "word/document.xml"), nil},
		{"docx without body", "memo.docx", zipWith(t, "word/styles.xml"), ErrCorrupt},
		{"docx not a zip", "memo.docx", []byte("hello"), ErrCorrupt},
		{"doc", "legacy.doc", append(append([]byte{}, oleHeader...), 0, 0, 0), nil},
		{"doc without header", "legacy.doc", []byte("PK\x03\x04"), ErrCorrupt},
		{"pdf garbage", "deck.pdf", []byte("not a pdf"), ErrCorrupt},
		{"unsupported", "image.png", []byte{1}, documents.ErrUnsupportedFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := in.Inspect(ctx, documents.NewFileDescriptor(tc.file, tc.content))
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestInspect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New().Inspect(ctx, documents.NewFileDescriptor("a.txt", []byte("x")))
	assert.ErrorIs(t, err, context.Canceled)
}
