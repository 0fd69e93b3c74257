// Package stream adapts a span to the conventional io sequential-read
// contract. End of data surfaces as io.EOF; backing-source faults surface as
// errors from the read that triggered them.
package stream

import (
	"io"
	"math"

	"github.com/kk-code-lab/bytespan/internal/span"
)

// Reader reads a span from its offset to its end through a single walker.
// It implements io.Reader and io.ByteReader. Not safe for concurrent use.
type Reader struct {
	w *span.Walker
}

// NewReader creates a reader positioned at the span's offset.
func NewReader(s span.Span) *Reader {
	w, _ := s.Walker(s.Offset())
	return &Reader{w: w}
}

// Read copies up to len(p) unconsumed bytes into p. Returns io.EOF once the
// span is exhausted.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	rem := r.w.Remaining()
	if rem == 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > rem {
		p = p[:rem]
	}
	n, err := r.w.Span().ReadAt(p, r.w.Pos())
	if n > 0 {
		_ = r.w.Skip(int64(n))
	}
	return n, err
}

// ReadByte consumes and returns the next byte. Returns io.EOF once the span
// is exhausted.
func (r *Reader) ReadByte() (byte, error) {
	if !r.w.More() {
		return 0, io.EOF
	}
	b, err := r.w.Byte()
	if err != nil {
		return 0, err
	}
	r.w.Next()
	return b, nil
}

// Available returns the unconsumed byte count, capped to a reportable
// maximum.
func (r *Reader) Available() int {
	if rem := r.w.Remaining(); rem < math.MaxInt32 {
		return int(rem)
	}
	return math.MaxInt32
}

// Consumed returns how many bytes have been read, relative to the span's own
// coordinate origin.
func (r *Reader) Consumed() int64 {
	return r.w.Span().Relative(r.w.Pos())
}

// Span returns the span the reader wraps.
func (r *Reader) Span() span.Span {
	return r.w.Span()
}
