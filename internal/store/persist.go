package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"mcp-business-go/internal/document"
)

// File names used inside the data directory.
const (
	SalesFile     = "sales.csv"
	InventoryFile = "inventory.csv"
)

// DirPersister stores both tables as CSV files in one directory.
type DirPersister struct {
	dir string
}

// NewDirPersister creates dir if needed.
func NewDirPersister(dir string) (*DirPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &DirPersister{dir: dir}, nil
}

// SaveSales writes sales.csv.
func (p *DirPersister) SaveSales(rows []SalesRecord) error {
	return p.write(SalesFile, SalesTable(rows, false))
}

// SaveInventory writes inventory.csv.
func (p *DirPersister) SaveInventory(rows []InventoryRecord) error {
	return p.write(InventoryFile, InventoryTable(rows))
}

func (p *DirPersister) write(name string, t document.Table) error {
	data, err := document.EncodeCSV(t)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return writeFileAtomic(filepath.Join(p.dir, name), data)
}

// LoadSales reads sales.csv. A missing file is reported as fs.ErrNotExist.
func (p *DirPersister) LoadSales() ([]SalesRecord, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, SalesFile))
	if err != nil {
		return nil, err
	}
	rows, err := DecodeSales(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", SalesFile, err)
	}
	return rows, nil
}

// LoadInventory reads inventory.csv. A missing file is reported as fs.ErrNotExist.
func (p *DirPersister) LoadInventory() ([]InventoryRecord, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, InventoryFile))
	if err != nil {
		return nil, err
	}
	rows, err := DecodeInventory(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", InventoryFile, err)
	}
	return rows, nil
}

// Open builds a Store backed by dir. Each table is loaded from its own
// file; when a file is missing and seed is true, only that table is
// replaced by its demo rows and written to disk.
func Open(dir string, seed bool, logger zerolog.Logger) (*Store, error) {
	p, err := NewDirPersister(dir)
	if err != nil {
		return nil, err
	}

	sales, err := openTable(p.LoadSales, p.SaveSales, DemoSales, seed, KindSales, dir, logger)
	if err != nil {
		return nil, err
	}
	inv, err := openTable(p.LoadInventory, p.SaveInventory, DemoInventory, seed, KindInventory, dir, logger)
	if err != nil {
		return nil, err
	}

	return New(sales, inv, logger, WithPersister(p)), nil
}

func openTable[T any](
	load func() ([]T, error),
	save func([]T) error,
	demo func() []T,
	seed bool,
	kind Kind,
	dir string,
	logger zerolog.Logger,
) ([]T, error) {
	rows, err := load()
	switch {
	case err == nil:
		logger.Info().
			Str("dir", dir).
			Str("table", string(kind)).
			Int("rows", len(rows)).
			Msg("Loaded table from disk")
		return rows, nil
	case errors.Is(err, fs.ErrNotExist) && seed:
		rows = demo()
		if err := save(rows); err != nil {
			return nil, fmt.Errorf("seed %s: %w", kind, err)
		}
		logger.Info().
			Str("dir", dir).
			Str("table", string(kind)).
			Msg("Seeded demo table")
		return rows, nil
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn().
			Str("dir", dir).
			Str("table", string(kind)).
			Msg("No table file found, starting empty")
		return nil, nil
	default:
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
