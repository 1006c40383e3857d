package main

import "os"

// SourceBuffer owns one compilation unit's source text. The text always
// ends in a NUL sentinel so the scanner can dispatch on a single byte read
// without bounds checks at every position.
type SourceBuffer struct {
	path   string
	data   []byte // file contents plus trailing NUL
	mapped bool
}

// LoadSource reads the file at path into memory (memory-mapped where the
// platform supports it) and appends the sentinel.
func LoadSource(path string) (*SourceBuffer, error) {
	data, mapped, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	return &SourceBuffer{path: path, data: data, mapped: mapped}, nil
}

// NewSourceBuffer wraps in-memory source text, for inline input and tests.
// The text is copied so the caller may reuse its slice.
func NewSourceBuffer(path string, text []byte) *SourceBuffer {
	data := make([]byte, len(text)+1)
	copy(data, text)
	return &SourceBuffer{path: path, data: data}
}

// readFile is the portable load path: read the whole file and append the
// sentinel in a fresh allocation.
func readFile(path string) ([]byte, bool, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return append(text, 0), false, nil
}

// Bytes returns the source text including the trailing sentinel.
func (sb *SourceBuffer) Bytes() []byte { return sb.data }

func (sb *SourceBuffer) Path() string { return sb.path }

// Release unmaps or drops the source text. The buffer must not be used
// afterwards.
func (sb *SourceBuffer) Release() error {
	data, mapped := sb.data, sb.mapped
	sb.data = nil
	sb.mapped = false
	if mapped {
		return unmapFile(data)
	}
	return nil
}
