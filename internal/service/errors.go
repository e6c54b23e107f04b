package service

import "errors"

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("analysis not found")
	ErrReaderNil  = errors.New("reader is nil")

	// ErrUnsupportedType rejects anything that is not a PDF.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrFileTooLarge rejects uploads above the configured cap.
	ErrFileTooLarge = errors.New("file too large")
	// ErrBackend wraps every failure of the analysis backend.
	ErrBackend = errors.New("analysis backend error")
	// ErrNoSourceURI means the backend never reported where it stored the file,
	// so no explanation can be requested.
	ErrNoSourceURI = errors.New("analysis has no source uri")
)
