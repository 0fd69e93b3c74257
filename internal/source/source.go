// Package source provides random-access byte sources that spans can be
// loaded from. A source needs positioned reads and a known extent only; it
// never needs to support writes or seeking.
package source

import "bytes"

// Source is a random-access byte source with a fixed extent. ReadAt follows
// io.ReaderAt semantics, is positioned (it moves no implicit cursor), and
// must support concurrent calls.
type Source interface {
	ReadAt(p []byte, off int64) (int, error)
	Length() int64
	Close() error
}

// Mem is an in-memory source.
type Mem struct {
	r *bytes.Reader
}

// NewMem creates a source over data. The slice is retained, not copied.
func NewMem(data []byte) *Mem {
	return &Mem{r: bytes.NewReader(data)}
}

// ReadAt reads from the underlying slice.
func (m *Mem) ReadAt(p []byte, off int64) (int, error) {
	return m.r.ReadAt(p, off)
}

// Length returns the slice length.
func (m *Mem) Length() int64 {
	return m.r.Size()
}

// Close is a no-op.
func (m *Mem) Close() error {
	return nil
}
