package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/kk-code-lab/bytespan/internal/span"
)

func testData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func TestReaderCopiesWholeSpan(t *testing.T) {
	data := testData(300)
	r := NewReader(span.Bytes(data))

	var out bytes.Buffer
	n, err := io.Copy(&out, r)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if n != 300 || !bytes.Equal(out.Bytes(), data) {
		t.Fatalf("Copy: got %d bytes", n)
	}
	if r.Consumed() != 300 {
		t.Fatalf("Consumed: got %d want 300", r.Consumed())
	}
	if r.Available() != 0 {
		t.Fatalf("Available: got %d want 0", r.Available())
	}
	// Exhaustion is a sentinel, not an error.
	buf := make([]byte, 1)
	if _, err := r.Read(buf); err != io.EOF {
		t.Fatalf("Read after end: got %v want io.EOF", err)
	}
}

func TestReaderByteByByte(t *testing.T) {
	data := testData(5)
	r := NewReader(span.Bytes(data))

	var got []byte
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadByte: %v", err)
		}
		got = append(got, b)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("ReadByte sequence mismatch")
	}
	if _, err := r.ReadByte(); err != io.EOF {
		t.Fatalf("ReadByte after end: got %v want io.EOF", err)
	}
}

func TestReaderAvailableAndConsumed(t *testing.T) {
	data := testData(100)
	r := NewReader(span.Bytes(data))

	if r.Available() != 100 {
		t.Fatalf("Available: got %d want 100", r.Available())
	}
	buf := make([]byte, 30)
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if r.Available() != 70 {
		t.Fatalf("Available after read: got %d want 70", r.Available())
	}
	if r.Consumed() != 30 {
		t.Fatalf("Consumed: got %d want 30", r.Consumed())
	}
}

func TestReaderOnReanchoredSpan(t *testing.T) {
	data := testData(40)
	sp := span.Bytes(data).Duplicate(7000)
	r := NewReader(sp)

	if r.Span().Offset() != 7000 {
		t.Fatalf("Span: got offset %d want 7000", r.Span().Offset())
	}
	buf := make([]byte, 10)
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if !bytes.Equal(buf, data[:10]) {
		t.Fatalf("content mismatch on re-anchored span")
	}
	// Consumed counts are relative to the span's own origin.
	if r.Consumed() != 10 {
		t.Fatalf("Consumed: got %d want 10", r.Consumed())
	}
}

func TestReaderEmptySpan(t *testing.T) {
	r := NewReader(span.Bytes(nil))

	buf := make([]byte, 4)
	if n, err := r.Read(buf); n != 0 || err != io.EOF {
		t.Fatalf("Read: got (%d, %v) want (0, io.EOF)", n, err)
	}
	if r.Consumed() != 0 || r.Available() != 0 {
		t.Fatalf("empty span: consumed=%d available=%d", r.Consumed(), r.Available())
	}
}

func TestReaderZeroLengthRead(t *testing.T) {
	r := NewReader(span.Bytes(testData(3)))
	if n, err := r.Read(nil); n != 0 || err != nil {
		t.Fatalf("Read(nil): got (%d, %v) want (0, nil)", n, err)
	}
}

func TestReaderOverSlicedHead(t *testing.T) {
	data := testData(50)
	sp, err := span.Bytes(data).SliceAt(10)
	if err != nil {
		t.Fatalf("SliceAt: %v", err)
	}
	sp, err = sp.Head(20)
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	out, err := io.ReadAll(NewReader(sp))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(out, data[10:30]) {
		t.Fatalf("sliced head content mismatch")
	}
}
