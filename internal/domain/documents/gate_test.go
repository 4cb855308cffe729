package documents

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(name string, size int64) FileDescriptor {
	return FileDescriptor{Name: name, SizeBytes: size}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		files    []FileDescriptor
		wantKind ErrorKind
		wantFile string
	}{
		{"single pdf", []FileDescriptor{file("report.pdf", 1024)}, "", ""},
		{"mixed case extensions", []FileDescriptor{file("A.PDF", 1), file("b.DocX", 1), file("c.Txt", 1), file("d.doc", 1)}, "", ""},
		{"exactly at limit", []FileDescriptor{file("big.pdf", MaxFileSize)}, "", ""},
		{"one byte over limit", []FileDescriptor{file("big.pdf", MaxFileSize+1)}, KindTooLarge, "big.pdf"},
		{"unsupported extension", []FileDescriptor{file("image.png", 10)}, KindUnsupportedFormat, "image.png"},
		{"no extension", []FileDescriptor{file("README", 10)}, KindUnsupportedFormat, "README"},
		{"only final suffix counts", []FileDescriptor{file("notes.pdf.exe", 10)}, KindUnsupportedFormat, "notes.pdf.exe"},
		{"trailing dot", []FileDescriptor{file("notes.", 10)}, KindUnsupportedFormat, "notes."},
		{
			"first offending file wins",
			[]FileDescriptor{file("ok.txt", 1), file("bad.exe", 1), file("huge.pdf", MaxFileSize+1)},
			KindUnsupportedFormat, "bad.exe",
		},
		{
			"size checked before extension",
			[]FileDescriptor{file("huge.exe", MaxFileSize+1)},
			KindTooLarge, "huge.exe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.files)
			if tt.wantKind == "" {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantKind, ve.Kind)
			assert.Equal(t, tt.wantFile, ve.FileName)
		})
	}
}

func TestValidate_EmptyBatch(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrEmptyBatch)
	assert.True(t, IsValidation(ErrEmptyBatch))
}

func TestValidationError_Messages(t *testing.T) {
	err := Validate([]FileDescriptor{file("q3.pdf", MaxFileSize*2)})
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, `File "q3.pdf" exceeds the maximum size limit of 10MB`, err.Error())

	err = Validate([]FileDescriptor{file("deck.pptx", 1)})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, `File "deck.pptx" is not a supported format`, err.Error())
	assert.True(t, IsValidation(err))
}

func TestGate_LastError(t *testing.T) {
	var g Gate
	assert.Empty(t, g.LastError())

	require.Error(t, g.Validate([]FileDescriptor{file("x.zip", 1)}))
	assert.Equal(t, `File "x.zip" is not a supported format`, g.LastError())

	require.Error(t, g.Validate([]FileDescriptor{file("y.pdf", MaxFileSize+1)}))
	assert.Equal(t, `File "y.pdf" exceeds the maximum size limit of 10MB`, g.LastError())

	require.NoError(t, g.Validate([]FileDescriptor{file("z.txt", 1)}))
	assert.Empty(t, g.LastError())
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "pdf", Extension("a.b.PDF"))
	assert.Equal(t, "readme", Extension("README"))
	assert.Equal(t, "", Extension("trailing."))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("Deck.PDF"))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType("notes.txt"))
	assert.Equal(t, "application/octet-stream", ContentType("image.png"))
}
