package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
)

var _ Bridge = (*File)(nil)

// File is a Bridge backed by the local filesystem. Each identity gets its
// own directory under the root; each key is one gzip-compressed JSON
// document. Writes go through a temp file and rename so a crash mid-write
// never leaves a truncated document behind.
type File struct {
	root string
}

// NewFile creates a file bridge rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create storage root")
	}
	return &File{root: dir}, nil
}

// Save writes the document for (identityID, key) atomically.
func (f *File) Save(_ context.Context, identityID, key string, data []byte) error {
	dir := filepath.Join(f.root, sanitize(identityID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create identity dir")
	}

	tmp, err := os.CreateTemp(dir, "."+sanitize(key)+"-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	zw := pgzip.NewWriter(tmp)
	if _, err := zw.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write document")
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "flush document")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}

	if err := os.Rename(tmp.Name(), f.path(identityID, key)); err != nil {
		return errors.Wrap(err, "replace document")
	}
	return nil
}

// Load reads and decompresses the document for (identityID, key).
func (f *File) Load(_ context.Context, identityID, key string) ([]byte, error) {
	file, err := os.Open(f.path(identityID, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "open document")
	}
	defer file.Close()

	zr, err := pgzip.NewReader(file)
	if err != nil {
		return nil, errors.Wrap(err, "read gzip header")
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(err, "decompress document")
	}
	return data, nil
}

// Clear deletes the document if present.
func (f *File) Clear(_ context.Context, identityID, key string) error {
	err := os.Remove(f.path(identityID, key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove document")
	}
	return nil
}

func (f *File) path(identityID, key string) string {
	return filepath.Join(f.root, sanitize(identityID), sanitize(key)+".json.gz")
}

// sanitize maps an identity id or key to a safe path segment. Identity ids
// are UUIDs or short fixed names, so this only has to neutralize separators
// and relative-path tricks.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('~')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
