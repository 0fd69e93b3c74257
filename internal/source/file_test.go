package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	data := []byte("some file-backed bytes")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer func() { _ = src.Close() }()

	if src.Length() != int64(len(data)) {
		t.Fatalf("Length: got %d want %d", src.Length(), len(data))
	}
	if src.Path() != path {
		t.Fatalf("Path: got %q want %q", src.Path(), path)
	}

	buf := make([]byte, 9)
	n, err := src.ReadAt(buf, 5)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if n != 9 || !bytes.Equal(buf, data[5:14]) {
		t.Fatalf("ReadAt: got %q", buf[:n])
	}
}

func TestOpenFileMissing(t *testing.T) {
	if _, err := OpenFile(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFileReadAfterClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	buf := make([]byte, 1)
	if _, err := src.ReadAt(buf, 0); err == nil {
		t.Fatalf("expected error reading a closed source")
	}
}

func TestMemSource(t *testing.T) {
	data := []byte("in-memory bytes")
	src := NewMem(data)

	if src.Length() != int64(len(data)) {
		t.Fatalf("Length: got %d want %d", src.Length(), len(data))
	}
	buf := make([]byte, 6)
	n, err := src.ReadAt(buf, 3)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if n != 6 || !bytes.Equal(buf, data[3:9]) {
		t.Fatalf("ReadAt: got %q", buf[:n])
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
