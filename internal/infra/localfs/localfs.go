// Package localfs turns paths on disk into upload descriptors for the CLI
// and the MCP tools.
package localfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

// Load reads every path. Files over the upload limit are returned with
// their size and no content so the gate can reject them.
func Load(paths []string) ([]domain.FileDescriptor, error) {
	out := make([]domain.FileDescriptor, 0, len(paths))
	for _, p := range paths {
		f, err := loadOne(p)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func loadOne(path string) (domain.FileDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.FileDescriptor{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.FileDescriptor{}, err
	}
	if info.IsDir() {
		return domain.FileDescriptor{}, fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	if info.Size() > domain.MaxFileSize {
		return domain.FileDescriptor{Name: name, SizeBytes: info.Size()}, nil
	}
	data, err := io.ReadAll(io.LimitReader(f, domain.MaxFileSize+1))
	if err != nil {
		return domain.FileDescriptor{}, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.NewFileDescriptor(name, data), nil
}
