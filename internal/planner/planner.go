// Package planner owns the live hub document and is the only place it is
// mutated. Every operation runs under a single lock so callers arriving
// concurrently (MCP requests, CLI commands) see one mutation at a time, and
// every mutation ends with the full document being written to storage.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/HendryAvila/impacthub/internal/clocktime"
	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/schedule"
)

// ErrUnknownTask is returned when an operation names a task id that does
// not exist.
var ErrUnknownTask = errors.New("planner: unknown task")

// ErrUnknownProject is returned when an update names an initiative id that
// does not exist.
var ErrUnknownProject = errors.New("planner: unknown project")

// PersistError reports a failed document write. The in-memory state that
// produced it is kept and the planner stays dirty until a later write
// succeeds.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("planner: saving document: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Options configures a Planner. Zero Clock and NewID fall back to the wall
// clock and random UUIDs.
type Options struct {
	Storage hub.Storage
	Clock   hub.Clock
	NewID   hub.IDFunc
}

// Planner is the controller around one hub document.
type Planner struct {
	storage hub.Storage
	clock   hub.Clock
	newID   hub.IDFunc

	mu    sync.Mutex
	state *hub.State
	sched *schedule.Scheduler
	gen   uint64
	dirty bool

	// writeMu orders storage writes; written is the generation of the last
	// document that reached storage.
	writeMu sync.Mutex
	written uint64
}

// New creates a planner holding an empty document. Call Open to load the
// stored one.
func New(opts Options) *Planner {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = hub.NewUUID
	}
	return &Planner{
		storage: opts.Storage,
		clock:   clock,
		newID:   newID,
		state:   hub.NewState(),
		sched:   schedule.NewScheduler(clock()),
	}
}

// Open loads the stored document, replacing the in-memory state. A missing
// document yields a fresh default state and reports created. A malformed
// document or read failure leaves the current state untouched.
func (p *Planner) Open(ctx context.Context) (created bool, err error) {
	data, err := p.storage.Read(ctx)
	if errors.Is(err, hub.ErrNotFound) {
		p.replace(hub.NewState())
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("planner: reading document: %w", err)
	}

	st, err := p.parse(data)
	if err != nil {
		return false, err
	}
	p.replace(st)
	return false, nil
}

// Restore replaces the state with the given document bytes and writes it
// back to storage.
func (p *Planner) Restore(ctx context.Context, data []byte) error {
	st, err := p.parse(data)
	if err != nil {
		return err
	}
	return p.mutate(ctx, func(cur *hub.State) error {
		*cur = *st
		return nil
	})
}

// Save writes the current state without changing it.
func (p *Planner) Save(ctx context.Context) error {
	return p.mutate(ctx, func(*hub.State) error { return nil })
}

// Dirty reports whether the in-memory state has changes that have not
// reached storage.
func (p *Planner) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// Document returns a detached snapshot of the whole state.
func (p *Planner) Document() *hub.Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return hub.Serialize(p.state)
}

// Settings returns a copy of the settings block.
func (p *Planner) Settings() hub.Settings {
	return p.Document().Settings
}

// Today is the clock's current date.
func (p *Planner) Today() string {
	return clocktime.DateString(p.clock())
}

func (p *Planner) parse(data []byte) (*hub.State, error) {
	raw, err := hub.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	return hub.Load(raw, p.newID), nil
}

func (p *Planner) replace(st *hub.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = st
	p.dirty = false
}

// view runs fn under the state lock.
func (p *Planner) view(fn func(st *hub.State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.state)
}

// mutate applies fn under the state lock and, if it succeeds, encodes the
// result and writes it. fn must leave the state untouched when it returns
// an error.
func (p *Planner) mutate(ctx context.Context, fn func(st *hub.State) error) error {
	p.mu.Lock()
	if err := fn(p.state); err != nil {
		p.mu.Unlock()
		return err
	}
	data, err := hub.Encode(hub.Serialize(p.state))
	if err != nil {
		p.dirty = true
		p.mu.Unlock()
		return &PersistError{Err: err}
	}
	p.gen++
	gen := p.gen
	p.dirty = true
	p.mu.Unlock()

	return p.write(ctx, gen, data)
}

// write stores the document of generation gen. A write whose generation is
// already superseded by one that reached storage is dropped.
func (p *Planner) write(ctx context.Context, gen uint64, data []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if gen <= p.written {
		return nil
	}
	if err := p.storage.Write(ctx, data); err != nil {
		return &PersistError{Err: err}
	}
	p.written = gen

	p.mu.Lock()
	if p.gen == gen {
		p.dirty = false
	}
	p.mu.Unlock()
	return nil
}
