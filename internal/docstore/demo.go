package docstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DemoFile is the sample document written on a fresh install.
const DemoFile = "politica_calidad.txt"

// DemoText is the content of DemoFile.
const DemoText = "Nuestra política de calidad exige mantener inventario de seguridad y lead time de 7 días en línea de monitores."

// SeedDemo writes DemoFile into the store directory unless it already
// exists. It reports whether the file was written.
func (s *Store) SeedDemo() (bool, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return false, fmt.Errorf("create docs dir: %w", err)
	}
	path := filepath.Join(s.dir, DemoFile)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create %s: %w", DemoFile, err)
	}
	if _, err := f.WriteString(DemoText); err != nil {
		f.Close()
		os.Remove(path)
		return false, fmt.Errorf("write %s: %w", DemoFile, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("close %s: %w", DemoFile, err)
	}
	s.logger.Info().Str("file", DemoFile).Msg("Seeded demo document")
	return true, nil
}
