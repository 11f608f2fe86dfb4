// Package docstore reads the plain-text document corpus used by the
// docs.search and llm.ask tools.
package docstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"mcp-business-go/internal/textfold"
)

// Ext is the extension of corpus files.
const Ext = ".txt"

// Doc is one corpus file.
type Doc struct {
	Name string
	Text string
}

// Store reads *.txt files from a directory on every call, so edits to the
// corpus are visible without a restart.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// New creates a store over dir. The directory does not need to exist.
func New(dir string, logger zerolog.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "docstore").Logger(),
	}
}

// Docs returns every readable corpus file, sorted by name. A missing
// directory yields an empty corpus.
func (s *Store) Docs() ([]Doc, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read docs dir: %w", err)
	}

	var docs []Doc
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("file", e.Name()).
				Msg("Skipping unreadable document")
			continue
		}
		docs = append(docs, Doc{Name: e.Name(), Text: string(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Search returns the names of documents containing q, ignoring case and accents.
func (s *Store) Search(q string) ([]string, error) {
	needle := textfold.Fold(strings.TrimSpace(q))
	if needle == "" {
		return nil, nil
	}
	docs, err := s.Docs()
	if err != nil {
		return nil, err
	}
	var found []string
	for _, d := range docs {
		if strings.Contains(textfold.Fold(d.Text), needle) {
			found = append(found, d.Name)
		}
	}
	return found, nil
}

// Text concatenates the whole corpus, separating documents with a blank line.
func (s *Store) Text() (string, error) {
	docs, err := s.Docs()
	if err != nil {
		return "", err
	}
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Text
	}
	return strings.Join(parts, "\n\n"), nil
}
