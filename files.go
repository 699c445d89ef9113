package fvwm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const truncationMarker = "... (truncated)"

// Files reads and maintains files under a single base directory. Paths are
// always relative to the base; absolute paths and parent traversal are
// rejected before touching the filesystem.
type Files struct {
	base    string
	maxRead int
}

// NewFiles creates a file adapter rooted at base. maxRead caps how many
// bytes a single read returns; zero or negative means 256 KiB.
func NewFiles(base string, maxRead int) *Files {
	if maxRead <= 0 {
		maxRead = 256 << 10
	}
	return &Files{base: base, maxRead: maxRead}
}

// Base returns the root directory.
func (f *Files) Base() string { return f.base }

// Read returns the file's contents, truncated with a marker past the
// configured cap.
func (f *Files) Read(name string) (string, error) {
	path, err := f.resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > f.maxRead {
		return string(data[:f.maxRead]) + "\n" + truncationMarker, nil
	}
	return string(data), nil
}

// Tail returns up to max bytes from the end of the file. A truncation
// marker leads the result when the file was longer, and the cut lands on
// a line boundary.
func (f *Files) Tail(name string, max int) (string, error) {
	path, err := f.resolve(name)
	if err != nil {
		return "", err
	}
	if max <= 0 {
		max = f.maxRead
	}
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if info.Size() <= int64(max) {
		data, err := io.ReadAll(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		return string(data), nil
	}
	if _, err := file.Seek(-int64(max), io.SeekEnd); err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	// Drop the partial first line so the tail starts cleanly.
	if i := bytes.IndexByte(data, '\n'); i >= 0 && i+1 < len(data) {
		data = data[i+1:]
	}
	return truncationMarker + "\n" + string(data), nil
}

// Clear truncates the file to empty. A missing file is already clear and
// is not an error.
func (f *Files) Clear(name string) error {
	path, err := f.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Truncate(path, 0); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("clear %s: %w", name, err)
	}
	return nil
}

// Path resolves name against the base without touching the filesystem.
func (f *Files) Path(name string) (string, error) {
	return f.resolve(name)
}

func (f *Files) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("path must be relative: %s", name)
	}
	if strings.Contains(name, "..") {
		return "", fmt.Errorf("path cannot contain ..: %s", name)
	}
	return filepath.Join(f.base, name), nil
}
