// Package snapshots keeps a revision history of the hub document in SQLite.
//
// Every successful save becomes one row. Consecutive identical documents
// are stored once and the history is pruned to a fixed number of revisions.
// A Store can act as the primary document storage, or sit behind another
// storage as a Journal.
package snapshots

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HendryAvila/impacthub/internal/hub"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is replaced in tests.
var timeNow = time.Now

// ErrNoRevision is returned by Get for an unknown revision id.
var ErrNoRevision = errors.New("snapshots: no such revision")

// Config holds the store location and retention.
type Config struct {
	DataDir string
	// Keep is the number of revisions retained. Older ones are pruned on
	// every write.
	Keep int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir: filepath.Join(home, ".impacthub"),
		Keep:    50,
	}
}

// Revision describes one stored document without its body.
type Revision struct {
	ID      int64  `json:"id"`
	SavedAt string `json:"saved_at"`
	Hash    string `json:"hash"`
	Size    int    `json:"size"`
}

// Store is the SQLite-backed revision history.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New opens (creating if needed) history.db under cfg.DataDir.
func New(cfg Config) (*Store, error) {
	if cfg.Keep <= 0 {
		return nil, fmt.Errorf("snapshots: keep must be positive, got %d", cfg.Keep)
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("snapshots: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "history.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("snapshots: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("snapshots: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("snapshots: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS revisions (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			saved_at TEXT    NOT NULL,
			hash     TEXT    NOT NULL,
			size     INTEGER NOT NULL,
			body     BLOB    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_revisions_hash ON revisions(hash);
	`)
	return err
}

// Read returns the newest revision body, or hub.ErrNotFound when the
// history is empty.
func (s *Store) Read(ctx context.Context) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM revisions ORDER BY id DESC LIMIT 1`,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, hub.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("snapshots: read latest: %w", err)
	}
	return body, nil
}

// Write records data as a new revision unless it is identical to the
// newest one, then prunes the history to Keep revisions.
func (s *Store) Write(ctx context.Context, data []byte) error {
	hash := hashBody(data)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("snapshots: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var latest string
	err = tx.QueryRowContext(ctx, `SELECT hash FROM revisions ORDER BY id DESC LIMIT 1`).Scan(&latest)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("snapshots: latest hash: %w", err)
	}
	if latest == hash {
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO revisions (saved_at, hash, size, body) VALUES (?, ?, ?, ?)`,
		timeNow().UTC().Format(time.RFC3339), hash, len(data), data,
	); err != nil {
		return fmt.Errorf("snapshots: insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM revisions WHERE id NOT IN (SELECT id FROM revisions ORDER BY id DESC LIMIT ?)`,
		s.cfg.Keep,
	); err != nil {
		return fmt.Errorf("snapshots: prune: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("snapshots: commit: %w", err)
	}
	return nil
}

// List returns up to limit revisions, newest first. limit <= 0 lists all.
func (s *Store) List(ctx context.Context, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = s.cfg.Keep
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, saved_at, hash, size FROM revisions ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("snapshots: list: %w", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.ID, &r.SavedAt, &r.Hash, &r.Size); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns the body of one revision.
func (s *Store) Get(ctx context.Context, id int64) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM revisions WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNoRevision, id)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshots: get %d: %w", id, err)
	}
	return body, nil
}

func hashBody(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
