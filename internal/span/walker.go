package span

// Walker is a forward-only cursor over one span. It layers sequential
// consumption on top of the span's positioned reads: the position only
// increases, up to the one-past-end sentinel that marks exhaustion.
//
// A walker is not safe for concurrent use. Independent walkers over the same
// span are fully independent.
type Walker struct {
	span Span
	pos  int64
}

// More reports whether a current byte exists. A walker over a zero-length
// span starts exhausted.
func (w *Walker) More() bool { return w.pos <= w.span.End() }

// Byte returns the byte at the current position without advancing. Returns
// ErrExhausted past the end of the span.
func (w *Walker) Byte() (byte, error) {
	if !w.More() {
		return 0, ErrExhausted
	}
	return w.span.ByteAt(w.pos)
}

// Next advances past the current byte. Calling Next on an exhausted walker
// has no effect.
func (w *Walker) Next() {
	if w.pos <= w.span.End() {
		w.pos++
	}
}

// Skip advances the cursor by n bytes, clamping at the exhaustion sentinel.
// Returns ErrOutOfRange if n is negative.
func (w *Walker) Skip(n int64) error {
	if n < 0 {
		return ErrOutOfRange
	}
	if n > w.Remaining() {
		w.pos = w.span.End() + 1
		return nil
	}
	w.pos += n
	return nil
}

// Remaining returns the number of unconsumed bytes, zero once exhausted.
func (w *Walker) Remaining() int64 {
	if r := w.span.End() - w.pos + 1; r > 0 {
		return r
	}
	return 0
}

// Pos returns the current absolute position.
func (w *Walker) Pos() int64 { return w.pos }

// Span returns the span the walker is bound to.
func (w *Walker) Span() Span { return w.span }
