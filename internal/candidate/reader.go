package candidate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnreadable is returned by a FileReader for files that cannot be used as
// text: missing, unreadable, or binary.
var ErrUnreadable = errors.New("file unreadable")

// FileReader returns the content of a file by absolute path.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// DefaultMaxReadBytes bounds how much of a single file is read for scoring.
const DefaultMaxReadBytes int64 = 256 << 10

// OSReader reads files from the local disk.
type OSReader struct {
	MaxBytes int64 // 0 = DefaultMaxReadBytes
}

// ReadFile reads at most MaxBytes of the file at path. Binary content (a NUL
// byte in the first 512 bytes) is reported as ErrUnreadable.
func (r OSReader) ReadFile(path string) ([]byte, error) {
	limit := r.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxReadBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return nil, fmt.Errorf("%w: %s is binary", ErrUnreadable, path)
	}
	return data, nil
}

// MapReader serves file contents from memory. Paths not in the map are
// unreadable.
type MapReader map[string]string

func (m MapReader) ReadFile(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, path)
	}
	return []byte(content), nil
}
