// Package inspect checks that an admitted file is structurally readable
// before it is handed to the analysis engine. Nothing is extracted.
package inspect

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

var (
	ErrCorrupt = errors.New("file content is unreadable")
	ErrNoPages = errors.New("pdf has no pages")
)

// oleHeader is the compound file signature used by legacy .doc files.
var oleHeader = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

type Inspector struct{}

func New() *Inspector { return &Inspector{} }

// Inspect implements documents.Inspector.
func (i *Inspector) Inspect(ctx context.Context, file documents.FileDescriptor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch documents.Extension(file.Name) {
	case "pdf":
		_, err := PageCount(file.Content)
		return err
	case "docx":
		return checkDocx(file.Content)
	case "doc":
		if !bytes.HasPrefix(file.Content, oleHeader) {
			return fmt.Errorf("%w: missing OLE2 header", ErrCorrupt)
		}
		return nil
	case "txt":
		if !utf8.Valid(file.Content) {
			return fmt.Errorf("%w: text is not valid UTF-8", ErrCorrupt)
		}
		return nil
	}
	return documents.ErrUnsupportedFormat
}

// PageCount validates a PDF with pdfcpu and returns its page count.
func PageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: pdfcpu read: %v", ErrCorrupt, err)
	}
	if ctx.PageCount < 1 {
		return 0, ErrNoPages
	}
	return ctx.PageCount, nil
}

func checkDocx(data []byte) error {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: open zip: %v", ErrCorrupt, err)
	}
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			return nil
		}
	}
	return fmt.Errorf("%w: word/document.xml not found in archive", ErrCorrupt)
}
