package model

import (
	"bytes"
	"io"
	"os"
)

// Source names and opens the bytes of one model asset.
type Source interface {
	// Name identifies the source in errors and logs (usually a path).
	Name() string

	// Open returns a fresh reader over the asset bytes.
	Open() (io.ReadCloser, error)
}

// FileSource loads a model from a file path.
type FileSource string

// Name returns the file path.
func (s FileSource) Name() string { return string(s) }

// Open opens the file.
func (s FileSource) Open() (io.ReadCloser, error) { return os.Open(string(s)) }

// BytesSource loads a model from an in-memory byte slice.
type BytesSource struct {
	// Label identifies the source in errors and logs.
	Label string

	// Data holds the asset bytes. Not copied; callers must not mutate it
	// while a load is in flight.
	Data []byte
}

// Name returns the label.
func (s BytesSource) Name() string { return s.Label }

// Open returns a reader over Data.
func (s BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}
