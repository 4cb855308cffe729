package documents

import (
	"errors"
	"fmt"
)

var (
	ErrTooLarge          = errors.New("file too large")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyBatch        = errors.New("no files selected")

	ErrSessionNotFound  = errors.New("session not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidQuery     = errors.New("invalid query")
)

// ErrorKind classifies a rejected upload.
type ErrorKind string

const (
	KindTooLarge          ErrorKind = "too_large"
	KindUnsupportedFormat ErrorKind = "unsupported_format"
)

// ValidationError is returned by the upload gate for the first offending file.
type ValidationError struct {
	Kind     ErrorKind
	FileName string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindTooLarge:
		return fmt.Sprintf("File %q exceeds the maximum size limit of 10MB", e.FileName)
	case KindUnsupportedFormat:
		return fmt.Sprintf("File %q is not a supported format", e.FileName)
	}
	return fmt.Sprintf("File %q was rejected", e.FileName)
}

// Is lets errors.Is match ErrTooLarge / ErrUnsupportedFormat.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrTooLarge:
		return e.Kind == KindTooLarge
	case ErrUnsupportedFormat:
		return e.Kind == KindUnsupportedFormat
	}
	return false
}

// IsValidation reports whether err rejected an upload batch.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrEmptyBatch)
}
