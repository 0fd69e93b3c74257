package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/zeebo/blake3"

	"github.com/kk-code-lab/bytespan/internal/lazy"
	"github.com/kk-code-lab/bytespan/internal/source"
	"github.com/kk-code-lab/bytespan/internal/span"
	"github.com/kk-code-lab/bytespan/internal/stream"
)

type config struct {
	file      string
	db        string
	name      string
	offset    int64
	length    int64
	chunkSize int64
	evict     bool
}

func runMode(mode string, cfg config) error {
	switch mode {
	case "cat":
		return runCat(cfg)
	case "hash":
		return runHash(cfg)
	case "info":
		return runInfo(cfg)
	case "digest":
		return runDigest(cfg)
	case "import":
		return runImport(cfg)
	case "export":
		return runExport(cfg)
	case "blobs":
		return runBlobs(cfg)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func runCat(cfg config) error {
	sp, loader, err := openFileSpan(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = loader.Close() }()
	_, err = io.Copy(os.Stdout, stream.NewReader(sp))
	return err
}

func runHash(cfg config) error {
	sp, loader, err := openFileSpan(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = loader.Close() }()
	hasher := blake3.New()
	n, err := io.Copy(hasher, stream.NewReader(sp))
	if err != nil {
		return err
	}
	fmt.Printf("%x bytes=%d\n", hasher.Sum(nil), n)
	return nil
}

func runInfo(cfg config) error {
	if cfg.file == "" {
		return ErrFileRequired
	}
	src, err := source.OpenFile(cfg.file)
	if err != nil {
		return err
	}
	loader, err := lazy.Open(src, lazy.Options{ChunkSize: cfg.chunkSize, OwnSource: true})
	if err != nil {
		return err
	}
	defer func() { _ = loader.Close() }()
	fmt.Printf("file=%s length=%d chunk_size=%d chunks=%d\n",
		cfg.file, loader.Length(), loader.ChunkSize(), loader.Chunks())
	return nil
}

func runDigest(cfg config) error {
	if cfg.file == "" {
		return ErrFileRequired
	}
	src, err := source.OpenFile(cfg.file)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()
	digests, err := lazy.DigestChunks(src, cfg.chunkSize)
	if err != nil {
		return err
	}
	for i, digest := range digests {
		fmt.Printf("%d %x\n", i, digest)
	}
	return nil
}

func runImport(cfg config) error {
	if cfg.db == "" {
		return ErrDBRequired
	}
	if cfg.name == "" {
		return ErrNameRequired
	}
	if cfg.file == "" {
		return ErrFileRequired
	}
	data, err := os.ReadFile(cfg.file)
	if err != nil {
		return err
	}
	store, err := source.OpenStore(cfg.db)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	start := time.Now()
	if err := store.Put(context.Background(), cfg.name, data); err != nil {
		return err
	}
	log.Printf("import name=%s bytes=%d dur_ms=%d", cfg.name, len(data), time.Since(start).Milliseconds())
	return nil
}

func runExport(cfg config) error {
	if cfg.db == "" {
		return ErrDBRequired
	}
	if cfg.name == "" {
		return ErrNameRequired
	}
	store, err := source.OpenStore(cfg.db)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	blob, err := store.Source(context.Background(), cfg.name)
	if err != nil {
		return err
	}
	loader, err := lazy.Open(blob, lazy.Options{ChunkSize: cfg.chunkSize, Evict: cfg.evict})
	if err != nil {
		return err
	}
	defer func() { _ = loader.Close() }()
	sp, err := selectRange(span.New(loader, 0), cfg.offset, cfg.length)
	if err != nil {
		return err
	}
	_, err = io.Copy(os.Stdout, stream.NewReader(sp))
	return err
}

func runBlobs(cfg config) error {
	if cfg.db == "" {
		return ErrDBRequired
	}
	store, err := source.OpenStore(cfg.db)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	infos, err := store.List(context.Background())
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Printf("name=%s size=%d created=%s\n", info.Name, info.Size, info.CreatedAt)
	}
	return nil
}

func openFileSpan(cfg config) (span.Span, *lazy.Loader, error) {
	if cfg.file == "" {
		return span.Span{}, nil, ErrFileRequired
	}
	src, err := source.OpenFile(cfg.file)
	if err != nil {
		return span.Span{}, nil, err
	}
	loader, err := lazy.Open(src, lazy.Options{
		ChunkSize: cfg.chunkSize,
		Evict:     cfg.evict,
		OwnSource: true,
	})
	if err != nil {
		return span.Span{}, nil, err
	}
	sp, err := selectRange(span.New(loader, 0), cfg.offset, cfg.length)
	if err != nil {
		_ = loader.Close()
		return span.Span{}, nil, err
	}
	return sp, loader, nil
}

// selectRange narrows a span to the requested offset and length, both given
// relative to the span's start. A negative length selects through the end.
func selectRange(sp span.Span, offset, length int64) (span.Span, error) {
	sp, err := sp.SliceAt(sp.Offset() + offset)
	if err != nil {
		return span.Span{}, err
	}
	if length < 0 {
		return sp, nil
	}
	return sp.Head(length)
}
