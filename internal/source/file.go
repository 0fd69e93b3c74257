package source

import "os"

// File is a source backed by an open file handle. The extent is fixed at
// open time; reads past a file that shrank afterwards fail rather than
// return wrong bytes.
type File struct {
	path string
	file *os.File
	size int64
}

// OpenFile opens a file for positioned reads and determines its extent.
func OpenFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &File{path: path, file: file, size: info.Size()}, nil
}

// ReadAt reads from the file at the given offset.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	return f.file.ReadAt(p, off)
}

// Length returns the file size observed at open time.
func (f *File) Length() int64 {
	return f.size
}

// Path returns the path the source was opened from.
func (f *File) Path() string {
	return f.path
}

// Close closes the underlying file. Later reads fail.
func (f *File) Close() error {
	return f.file.Close()
}
