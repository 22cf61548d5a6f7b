package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Sentinel errors for container access. Callers distinguish fatal input
// errors (ErrNotFound, ErrBadFormat) from the optional-data signal
// (ErrMissingEntry) with errors.Is.
var (
	// ErrNotFound indicates the container path does not exist.
	ErrNotFound = errors.New("container not found")
	// ErrBadFormat indicates the path exists but is not a valid zip container.
	ErrBadFormat = errors.New("not a valid container")
	// ErrMissingEntry indicates a named entry is absent from the container.
	// For optional entries this is an expected condition, not a failure.
	ErrMissingEntry = errors.New("entry not found in container")
)

// Container is a random-access handle over the compressed project file.
// It is opened once per extraction run and owned exclusively by that run.
type Container struct {
	rc    *zip.ReadCloser
	index map[string]*zip.File
}

// Open opens the container at path.
// It returns ErrNotFound if the path does not exist and ErrBadFormat if the
// file is not a readable zip archive.
func Open(path string) (*Container, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadFormat, path, err)
	}

	index := make(map[string]*zip.File, len(rc.File))
	for _, f := range rc.File {
		index[f.Name] = f
	}

	return &Container{rc: rc, index: index}, nil
}

// ReadEntry reads the named entry fully into memory.
// It returns ErrMissingEntry if the entry does not exist.
func (c *Container) ReadEntry(name string) ([]byte, error) {
	f, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntry, name)
	}

	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", name, err)
	}
	return data, nil
}

// List returns the names of all entries starting with prefix, sorted.
func (c *Container) List(prefix string) []string {
	var names []string
	for name := range c.index {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Close releases the underlying file handle. Safe to call once per handle.
func (c *Container) Close() error {
	return c.rc.Close()
}
