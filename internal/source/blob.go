package source

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	_ "modernc.org/sqlite"
)

// ErrBlobNotFound reports a lookup of a blob name the store does not hold.
var ErrBlobNotFound = errors.New("source: blob not found")

// Store keeps named byte runs in a SQLite database and serves them back as
// range-readable sources without loading whole blobs into memory.
type Store struct {
	db *sql.DB
}

// BlobInfo describes one stored blob.
type BlobInfo struct {
	Name      string
	Size      int64
	CreatedAt string
}

// OpenStore opens or creates the blob database at the given path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("source: db path required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.applyPragmas(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database. Sources obtained from the store fail afterwards.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores data under name, replacing any existing blob.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return errors.New("source: blob name required")
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO blobs(name, data, created_at) VALUES(?, ?, ?)",
		name, data, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// Delete removes the blob under name. Returns ErrBlobNotFound if absent.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE name = ?", name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBlobNotFound
	}
	return nil
}

// List returns all stored blobs ordered by name.
func (s *Store) List(ctx context.Context) ([]BlobInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, length(data), created_at FROM blobs ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var infos []BlobInfo
	for rows.Next() {
		var info BlobInfo
		if err := rows.Scan(&info.Name, &info.Size, &info.CreatedAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Source returns a range-readable source over the blob stored under name.
// The returned source reads through the store's database; it stays valid
// until the store is closed.
func (s *Store) Source(ctx context.Context, name string) (*Blob, error) {
	var size int64
	err := s.db.QueryRowContext(ctx,
		"SELECT length(data) FROM blobs WHERE name = ?", name).Scan(&size)
	if err == sql.ErrNoRows {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Blob{db: s.db, name: name, size: size, ctx: context.Background()}, nil
}

func (s *Store) applyPragmas(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		return err
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS blobs (
	name TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	created_at TEXT NOT NULL
)`); err != nil {
		return err
	}
	return tx.Commit()
}

// Blob is a source reading ranges of one stored blob via SQL substr, so a
// read never pulls more than the requested range out of the database.
type Blob struct {
	db   *sql.DB
	name string
	size int64
	ctx  context.Context
}

// ReadAt reads a range of the blob at the given offset.
func (b *Blob) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 {
		return 0, errors.New("source: negative offset")
	}
	if off >= b.size {
		return 0, io.EOF
	}
	want := int64(len(p))
	if off+want > b.size {
		want = b.size - off
	}
	var data []byte
	err := b.db.QueryRowContext(b.ctx,
		"SELECT substr(data, ?, ?) FROM blobs WHERE name = ?",
		off+1, want, b.name).Scan(&data)
	if err == sql.ErrNoRows {
		return 0, ErrBlobNotFound
	}
	if err != nil {
		return 0, err
	}
	n := copy(p, data)
	if int64(n) != want {
		return n, io.ErrUnexpectedEOF
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Length returns the blob size observed when the source was created.
func (b *Blob) Length() int64 {
	return b.size
}

// Close is a no-op; the store owns the database handle.
func (b *Blob) Close() error {
	return nil
}
