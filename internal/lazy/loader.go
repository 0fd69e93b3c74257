// Package lazy materializes a random-access byte source into fixed-size
// in-memory chunks on demand. A Loader is a span backend: spans over large
// sources read through it without the whole content ever being resident.
package lazy

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/kk-code-lab/bytespan/internal/source"
	"github.com/kk-code-lab/bytespan/internal/span"
)

// DefaultChunkSize is the default materialization unit (64 KiB).
const DefaultChunkSize = 64 << 10

// ErrDigestMismatch reports a materialized chunk whose BLAKE3 digest does not
// match the expected digest supplied at construction.
var ErrDigestMismatch = errors.New("lazy: chunk digest mismatch")

// Options configures a Loader.
type Options struct {
	// ChunkSize is the size of each materialized chunk. Zero selects
	// DefaultChunkSize.
	ChunkSize int64

	// Evict releases chunks once a read advances past them. Bounds memory
	// for sequential scans at the cost of re-reads on random access.
	Evict bool

	// Digests holds the expected BLAKE3 digest of every chunk. When set,
	// each chunk is verified at materialization and a mismatch fails the
	// triggering read. Must cover the source exactly.
	Digests [][32]byte

	// OwnSource makes the loader close the source on Close, and on a
	// construction failure.
	OwnSource bool
}

// Loader serves positioned reads over a source, materializing each covering
// chunk on first touch. Concurrent first-touches of the same chunk serialize;
// every reader observes the same bytes. A failed materialization retains
// nothing, so a later read retries the source.
type Loader struct {
	src       source.Source
	chunkSize int64
	length    int64
	evict     bool
	ownSrc    bool
	digests   [][32]byte

	mu     sync.Mutex
	chunks map[int64]*chunk
	loads  int64
}

type chunk struct {
	ready chan struct{}
	data  []byte
	err   error
}

// Open creates a loader over src. The extent is fixed from the source at
// construction. If opts.OwnSource is set, the source is closed when Open
// fails.
func Open(src source.Source, opts Options) (*Loader, error) {
	l, err := open(src, opts)
	if err != nil && opts.OwnSource && src != nil {
		_ = src.Close()
	}
	return l, err
}

func open(src source.Source, opts Options) (*Loader, error) {
	if src == nil {
		return nil, errors.New("lazy: source required")
	}
	if opts.ChunkSize < 0 {
		return nil, errors.New("lazy: chunk size must be positive")
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	length := src.Length()
	if length < 0 {
		return nil, errors.New("lazy: source extent unknown")
	}
	if opts.Digests != nil {
		want := chunkCount(length, opts.ChunkSize)
		if int64(len(opts.Digests)) != want {
			return nil, fmt.Errorf("lazy: %d digests for %d chunks", len(opts.Digests), want)
		}
	}
	return &Loader{
		src:       src,
		chunkSize: opts.ChunkSize,
		length:    length,
		evict:     opts.Evict,
		ownSrc:    opts.OwnSource,
		digests:   opts.Digests,
		chunks:    make(map[int64]*chunk),
	}, nil
}

// Length returns the extent observed at construction.
func (l *Loader) Length() int64 {
	return l.length
}

// ChunkSize returns the materialization unit.
func (l *Loader) ChunkSize() int64 {
	return l.chunkSize
}

// Chunks returns the total number of chunks covering the source.
func (l *Loader) Chunks() int64 {
	return chunkCount(l.length, l.chunkSize)
}

// ReadAt serves a positioned read from materialized chunks, loading each
// chunk the request touches on demand. A request crossing chunk boundaries
// is served from each overlapping chunk in order. Reads starting past the
// declared extent fail with span.ErrOutOfRange; a request extending past the
// end returns the available bytes and io.EOF.
func (l *Loader) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= l.length {
		return 0, span.ErrOutOfRange
	}
	want := int64(len(p))
	short := false
	if off+want > l.length {
		want = l.length - off
		short = true
	}
	n := 0
	for int64(n) < want {
		pos := off + int64(n)
		idx := pos / l.chunkSize
		data, err := l.chunk(idx)
		if err != nil {
			return n, err
		}
		n += copy(p[n:int(want)], data[pos-idx*l.chunkSize:])
	}
	if l.evict {
		l.release(off / l.chunkSize)
	}
	if short {
		return n, io.EOF
	}
	return n, nil
}

// Resident returns the number of chunks currently held in memory.
func (l *Loader) Resident() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.chunks)
}

// Loads returns how many chunk materializations have run, re-loads of
// evicted chunks included.
func (l *Loader) Loads() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

// Close drops all resident chunks and, if the loader owns its source, closes
// it. Later reads fail.
func (l *Loader) Close() error {
	l.mu.Lock()
	l.chunks = make(map[int64]*chunk)
	l.mu.Unlock()
	if !l.ownSrc {
		return nil
	}
	return l.src.Close()
}

// chunk returns the materialized bytes of chunk idx, loading them if needed.
// The first toucher loads; concurrent readers of the same chunk wait for it.
func (l *Loader) chunk(idx int64) ([]byte, error) {
	l.mu.Lock()
	if c, ok := l.chunks[idx]; ok {
		l.mu.Unlock()
		<-c.ready
		if c.err != nil {
			return nil, c.err
		}
		return c.data, nil
	}
	c := &chunk{ready: make(chan struct{})}
	l.chunks[idx] = c
	l.mu.Unlock()

	c.data, c.err = l.materialize(idx)

	l.mu.Lock()
	if c.err != nil {
		delete(l.chunks, idx)
	} else {
		l.loads++
	}
	l.mu.Unlock()
	close(c.ready)

	if c.err != nil {
		return nil, c.err
	}
	return c.data, nil
}

func (l *Loader) materialize(idx int64) ([]byte, error) {
	start := idx * l.chunkSize
	size := l.chunkSize
	if start+size > l.length {
		size = l.length - start
	}
	buf := make([]byte, size)
	n, err := l.src.ReadAt(buf, start)
	if int64(n) != size {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if l.digests != nil {
		if got := blake3.Sum256(buf); got != l.digests[idx] {
			return nil, fmt.Errorf("lazy: chunk %d: %w", idx, ErrDigestMismatch)
		}
	}
	return buf, nil
}

// release drops resident chunks a monotonically advancing read has passed.
func (l *Loader) release(before int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for idx, c := range l.chunks {
		if idx >= before {
			continue
		}
		select {
		case <-c.ready:
			delete(l.chunks, idx)
		default:
			// still materializing, leave it for its readers
		}
	}
}

// DigestChunks reads the whole source once and returns the BLAKE3 digest of
// every chunk, suitable for Options.Digests.
func DigestChunks(src source.Source, chunkSize int64) ([][32]byte, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	length := src.Length()
	count := chunkCount(length, chunkSize)
	digests := make([][32]byte, 0, count)
	buf := make([]byte, chunkSize)
	for idx := int64(0); idx < count; idx++ {
		start := idx * chunkSize
		size := chunkSize
		if start+size > length {
			size = length - start
		}
		n, err := src.ReadAt(buf[:size], start)
		if int64(n) != size {
			if err == nil || err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		digests = append(digests, blake3.Sum256(buf[:size]))
	}
	return digests, nil
}

func chunkCount(length, chunkSize int64) int64 {
	return (length + chunkSize - 1) / chunkSize
}
