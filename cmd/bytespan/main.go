package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kk-code-lab/bytespan/internal/app"
)

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	showVersionShort := flag.Bool("v", false, "Print version and exit (shorthand)")
	mode := flag.String("mode", "cat", "Mode: cat|hash|info|digest|import|export|blobs")
	file := flag.String("file", "", "Input file")
	db := flag.String("db", "", "Blob store database path")
	name := flag.String("name", "", "Blob name for import/export")
	offset := flag.Int64("offset", 0, "Range start within the input")
	length := flag.Int64("length", -1, "Range length (-1 = to end)")
	chunkSize := flag.Int64("chunk-size", 0, "Chunk size in bytes (0 = default)")
	evict := flag.Bool("evict", true, "Release chunks behind sequential reads")
	showModeHelp := flag.Bool("mode-help", false, "Show help for the selected mode")
	flag.Parse()

	if *showVersion || *showVersionShort {
		fmt.Printf("bytespan %s (commit %s)\n", app.Version, app.BuildCommit)
		return
	}
	if *showModeHelp {
		printModeHelp(*mode)
		return
	}

	if flag.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "unknown arguments:", flag.Args())
		os.Exit(2)
	}

	cfg := config{
		file:      *file,
		db:        *db,
		name:      *name,
		offset:    *offset,
		length:    *length,
		chunkSize: *chunkSize,
		evict:     *evict,
	}
	if err := runMode(*mode, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s error: %v\n", *mode, err)
		os.Exit(1)
	}
}

func printModeHelp(mode string) {
	help := map[string]string{
		"cat":    "stream a byte range of -file to stdout with bounded memory",
		"hash":   "print the BLAKE3-256 hex digest of a byte range of -file",
		"info":   "print extent and chunk layout of -file",
		"digest": "print the per-chunk BLAKE3 digests of -file",
		"import": "store -file into the blob store -db under -name",
		"export": "stream blob -name from -db to stdout",
		"blobs":  "list blobs stored in -db",
	}
	text, ok := help[mode]
	if !ok {
		fmt.Printf("unknown mode %q\n", mode)
		return
	}
	fmt.Printf("%s: %s\n", mode, text)
}
