package span

import "io"

// Backend produces the bytes behind one or more spans. Offsets are backend
// coordinates starting at zero. ReadAt follows io.ReaderAt semantics and must
// support concurrent positioned reads.
type Backend interface {
	ReadAt(p []byte, off int64) (int, error)
	Length() int64
}

// Span is an immutable view over a contiguous logical run of bytes. It
// carries only coordinate metadata plus a shared reference to its backend;
// deriving spans never copies bytes. The zero value is an empty span.
//
// Positions are absolute: a span covers [Offset, End]. Re-reading any valid
// position always yields the same byte for the life of the backend.
type Span struct {
	backend Backend
	base    int64 // backend offset of the span's first byte
	offset  int64
	length  int64
}

// New creates a span over the backend's full extent, anchored at offset.
func New(b Backend, offset int64) Span {
	return Span{backend: b, offset: offset, length: b.Length()}
}

// Bytes creates an in-memory span over data, anchored at zero.
func Bytes(data []byte) Span {
	return New(memBackend(data), 0)
}

// Offset returns the span's first valid position.
func (s Span) Offset() int64 { return s.offset }

// Length returns the number of bytes the span covers.
func (s Span) Length() int64 { return s.length }

// End returns the span's last valid position, Offset-1 for an empty span.
func (s Span) End() int64 { return s.offset + s.length - 1 }

// Relative converts an absolute position into the span's own coordinates.
func (s Span) Relative(pos int64) int64 { return pos - s.offset }

// ByteAt returns the byte at the absolute position pos. It returns
// ErrOutOfRange if pos is outside [Offset, End].
func (s Span) ByteAt(pos int64) (byte, error) {
	var b [1]byte
	if _, err := s.ReadAt(b[:], pos); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadAt copies up to len(p) bytes starting at the absolute position pos into
// p and returns the count copied. The count is less than len(p) only at the
// natural end of the span, with a nil error; callers needing io.EOF semantics
// should use the stream adapter. A zero-length p reads zero bytes from any
// position. Returns ErrOutOfRange if pos is outside [Offset, End].
func (s Span) ReadAt(p []byte, pos int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if pos < s.offset || pos > s.End() {
		return 0, ErrOutOfRange
	}
	want := int64(len(p))
	if rem := s.End() - pos + 1; want > rem {
		want = rem
	}
	n, err := s.backend.ReadAt(p[:want], s.base+(pos-s.offset))
	if int64(n) == want {
		return n, nil
	}
	// A short read inside the span means the backend could not supply bytes
	// it declared at construction.
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

// Duplicate returns a span with identical content re-anchored at newOffset.
// Storage is shared, not copied.
func (s Span) Duplicate(newOffset int64) Span {
	s.offset = newOffset
	return s
}

// SliceAt returns the span covering [pos, End] of the receiver. A slice at
// exactly End+1 is a valid empty span. Storage is shared, not copied.
func (s Span) SliceAt(pos int64) (Span, error) {
	if pos < s.offset || pos > s.End()+1 {
		return Span{}, ErrOutOfRange
	}
	return Span{
		backend: s.backend,
		base:    s.base + (pos - s.offset),
		offset:  pos,
		length:  s.End() + 1 - pos,
	}, nil
}

// Head returns the span covering the receiver's first n bytes. Storage is
// shared, not copied.
func (s Span) Head(n int64) (Span, error) {
	if n < 0 || n > s.length {
		return Span{}, ErrOutOfRange
	}
	s.length = n
	return s, nil
}

// Walker returns a cursor anchored at the absolute position start. A start of
// exactly End+1 yields an immediately exhausted walker. Returns ErrOutOfRange
// if start is outside [Offset, End+1].
func (s Span) Walker(start int64) (*Walker, error) {
	if start < s.offset || start > s.End()+1 {
		return nil, ErrOutOfRange
	}
	return &Walker{span: s, pos: start}, nil
}

type memBackend []byte

func (m memBackend) Length() int64 { return int64(len(m)) }

func (m memBackend) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m)) {
		return 0, ErrOutOfRange
	}
	n := copy(p, m[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
