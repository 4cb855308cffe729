package documents

import (
	"strings"
	"sync"
)

// MaxFileSize is the per-file upload limit (10 MiB).
const MaxFileSize int64 = 10 * 1024 * 1024

var acceptedExtensions = map[string]bool{
	"pdf":  true,
	"doc":  true,
	"docx": true,
	"txt":  true,
}

// AcceptedExtensions returns the accepted extensions, lower-case, without dot.
func AcceptedExtensions() []string {
	return []string{"pdf", "doc", "docx", "txt"}
}

// Extension returns the lower-cased final "."-delimited suffix of name.
// A name without a dot yields the whole name.
func Extension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

// Validate checks a batch before any analysis starts. The first offending
// file rejects the whole batch; size is checked before extension.
func Validate(files []FileDescriptor) error {
	if len(files) == 0 {
		return ErrEmptyBatch
	}
	for _, f := range files {
		if f.SizeBytes > MaxFileSize {
			return &ValidationError{Kind: KindTooLarge, FileName: f.Name}
		}
		if !acceptedExtensions[Extension(f.Name)] {
			return &ValidationError{Kind: KindUnsupportedFormat, FileName: f.Name}
		}
	}
	return nil
}

// Gate validates batches and remembers the message of the most recent
// failure until the next successful validation.
type Gate struct {
	mu      sync.Mutex
	lastErr string
}

// Validate runs Validate and records the outcome.
func (g *Gate) Validate(files []FileDescriptor) error {
	err := Validate(files)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.lastErr = err.Error()
		return err
	}
	g.lastErr = ""
	return nil
}

// LastError returns the most recent failure message, or "".
func (g *Gate) LastError() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"txt":  "text/plain; charset=utf-8",
}

// ContentType returns the MIME type for an accepted file name, or
// application/octet-stream.
func ContentType(name string) string {
	if ct, ok := contentTypes[Extension(name)]; ok {
		return ct
	}
	return "application/octet-stream"
}
