package notetree

import (
	"fmt"

	"github.com/joshuapare/booxkit/internal/format"
	"github.com/joshuapare/booxkit/internal/mmfile"
)

// File is a backup file mapped into memory. Records, scan entries and
// extracted objects copy what they keep, so they remain valid after Close.
type File struct {
	Path    string
	data    []byte
	cleanup func() error
}

// Open maps the file at path read-only.
func Open(path string) (*File, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("notetree: open %s: %w", path, err)
	}
	return &File{Path: path, data: data, cleanup: cleanup}, nil
}

// Size returns the file size in bytes.
func (f *File) Size() int { return len(f.data) }

// Bytes returns the mapped contents. The slice is invalid after Close.
func (f *File) Bytes() []byte { return f.data }

// Cursor returns a fresh cursor at the start of the file.
func (f *File) Cursor() *Cursor { return format.NewCursor(f.data) }

// Decoder returns a record decoder over the whole file.
func (f *File) Decoder(opts *Options) *Decoder { return NewDecoder(f.data, opts) }

// Close unmaps the file. Calling it more than once is safe.
func (f *File) Close() error {
	if f.cleanup == nil {
		return nil
	}
	err := f.cleanup()
	f.cleanup = nil
	f.data = nil
	return err
}
