package snapshots

import (
	"context"

	"github.com/HendryAvila/impacthub/internal/hub"
)

// Journal is a hub.Storage that forwards to a primary storage and records
// every successful write in a Store. History failures never fail the write;
// they are reported through OnError when set.
type Journal struct {
	primary hub.Storage
	history *Store

	OnError func(error)
}

// NewJournal wraps primary with history.
func NewJournal(primary hub.Storage, history *Store) *Journal {
	return &Journal{primary: primary, history: history}
}

// Read reads from the primary storage.
func (j *Journal) Read(ctx context.Context) ([]byte, error) {
	return j.primary.Read(ctx)
}

// Write writes to the primary storage, then to the history.
func (j *Journal) Write(ctx context.Context, data []byte) error {
	if err := j.primary.Write(ctx, data); err != nil {
		return err
	}
	if err := j.history.Write(ctx, data); err != nil && j.OnError != nil {
		j.OnError(err)
	}
	return nil
}

// History returns the revision store.
func (j *Journal) History() *Store { return j.history }
