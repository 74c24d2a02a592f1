package server

import (
	"context"
	"fmt"
	"log"

	"github.com/HendryAvila/impacthub/internal/config"
	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/planner"
	"github.com/HendryAvila/impacthub/internal/snapshots"
)

// Backend is an opened hub: the planner over the configured storage and,
// when enabled, its revision history.
type Backend struct {
	Planner *planner.Planner
	// History is nil when revision history is disabled or failed to open.
	History *snapshots.Store

	closers []func() error
}

// Close releases the storage. Safe to call more than once.
func (b *Backend) Close() {
	for _, c := range b.closers {
		if err := c(); err != nil {
			log.Printf("WARNING: closing storage: %v", err)
		}
	}
	b.closers = nil
}

// OpenBackend builds the storage chain for cfg and loads the document.
//
// The file backend optionally journals every save into the SQLite history.
// The sqlite backend is the history itself. A history that fails to open
// next to a file backend is logged and skipped; the hub still works.
func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	b := &Backend{}

	var storage hub.Storage
	switch cfg.Storage {
	case config.StorageMemory:
		storage = hub.NewMemoryStorage(nil)

	case config.StorageSQLite:
		keep := 1
		if cfg.History.Enabled {
			keep = cfg.History.Keep
		}
		store, err := snapshots.New(snapshots.Config{DataDir: cfg.DataDir, Keep: keep})
		if err != nil {
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		b.closers = append(b.closers, store.Close)
		if cfg.History.Enabled {
			b.History = store
		}
		storage = store

	default:
		storage = hub.NewFileStorage(cfg.Document)
		if cfg.History.Enabled {
			store, err := snapshots.New(snapshots.Config{DataDir: cfg.DataDir, Keep: cfg.History.Keep})
			if err != nil {
				log.Printf("WARNING: revision history disabled: %v", err)
				break
			}
			b.closers = append(b.closers, store.Close)
			b.History = store

			journal := snapshots.NewJournal(storage, store)
			journal.OnError = func(err error) {
				log.Printf("WARNING: revision not recorded: %v", err)
			}
			storage = journal
		}
	}

	b.Planner = planner.New(planner.Options{Storage: storage})
	if _, err := b.Planner.Open(ctx); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}
