// Package files stores generated report files in a flat namespace.
package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

var (
	// ErrInvalidName is returned for names outside the flat namespace.
	ErrInvalidName = errors.New("invalid file name")
	// ErrNotFound is returned when no file has the requested name.
	ErrNotFound = errors.New("file not found")
)

// ValidName reports whether name can be stored and served.
func ValidName(name string) bool {
	return len(name) <= 255 && validName.MatchString(name)
}

// Store keeps files in one directory.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// NewStore creates dir if needed.
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create files dir: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "files").Logger(),
	}, nil
}

// Link returns the public download path of name.
func Link(name string) string {
	return "/files/" + name
}

// Save writes data under name atomically and returns its download link.
func (s *Store) Save(name string, data []byte) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("rename %s: %w", name, err)
	}

	s.logger.Info().
		Str("name", name).
		Int("bytes", len(data)).
		Msg("File saved")
	return Link(name), nil
}

// Open returns the named file for reading. The caller closes it.
func (s *Store) Open(name string) (io.ReadSeekCloser, os.FileInfo, error) {
	if !ValidName(name) {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotFound
	}
	return f, info, nil
}
