// Package store holds the sales and inventory tables and the read-only
// aggregations computed over them.
//
// Tables are published as immutable snapshots. Readers load the current
// snapshot once per operation; writers build a complete replacement and swap
// the pointer, so a reader never observes a partially written table.
package store

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Snapshot is a consistent view of both tables. It must not be mutated.
type Snapshot struct {
	Sales     []SalesRecord
	Inventory []InventoryRecord
}

// Persister writes a table to durable storage before it is published.
type Persister interface {
	SaveSales(rows []SalesRecord) error
	SaveInventory(rows []InventoryRecord) error
}

// Store publishes table snapshots.
type Store struct {
	current   atomic.Pointer[Snapshot]
	writeMu   sync.Mutex
	persister Persister
	logger    zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithPersister makes every replacement durable before it becomes visible.
func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persister = p
	}
}

// New creates a store seeded with copies of the given tables.
func New(sales []SalesRecord, inventory []InventoryRecord, logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		logger: logger.With().Str("component", "store").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&Snapshot{
		Sales:     append([]SalesRecord(nil), sales...),
		Inventory: append([]InventoryRecord(nil), inventory...),
	})
	return s
}

// Snapshot returns the current tables.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// ReplaceSales swaps in a new sales table. On error the table is unchanged.
func (s *Store) ReplaceSales(rows []SalesRecord) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	fresh := append([]SalesRecord(nil), rows...)
	if s.persister != nil {
		if err := s.persister.SaveSales(fresh); err != nil {
			s.logger.Error().
				Err(err).
				Int("rows", len(fresh)).
				Msg("Failed to persist sales table")
			return fmt.Errorf("persist sales: %w", err)
		}
	}

	prev := s.current.Load()
	s.current.Store(&Snapshot{Sales: fresh, Inventory: prev.Inventory})

	s.logger.Info().
		Int("rows", len(fresh)).
		Msg("Sales table replaced")
	return nil
}

// ReplaceInventory swaps in a new inventory table. On error the table is unchanged.
func (s *Store) ReplaceInventory(rows []InventoryRecord) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	fresh := append([]InventoryRecord(nil), rows...)
	if s.persister != nil {
		if err := s.persister.SaveInventory(fresh); err != nil {
			s.logger.Error().
				Err(err).
				Int("rows", len(fresh)).
				Msg("Failed to persist inventory table")
			return fmt.Errorf("persist inventory: %w", err)
		}
	}

	prev := s.current.Load()
	s.current.Store(&Snapshot{Sales: prev.Sales, Inventory: fresh})

	s.logger.Info().
		Int("rows", len(fresh)).
		Msg("Inventory table replaced")
	return nil
}

// Counts returns the row count of each table.
func (s *Store) Counts() map[Kind]int {
	snap := s.Snapshot()
	return map[Kind]int{
		KindSales:     len(snap.Sales),
		KindInventory: len(snap.Inventory),
	}
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
