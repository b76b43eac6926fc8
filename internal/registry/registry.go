// Package registry provides the persistent peer registry backing federation.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/dbsmedya/fedsearch/internal/logger"
)

// Peer is one known federation node.
type Peer struct {
	URL         string     `json:"url"`
	LastSeen    time.Time  `json:"last_seen"`
	LastErrored *time.Time `json:"last_errored,omitempty"`
}

// Registry stores known peers in a local SQLite database so the node keeps
// its view of the federation across restarts.
type Registry struct {
	db     *sql.DB
	logger *logger.Logger
}

// Open opens (creating if needed) the registry database at the given path.
func Open(path string, log *logger.Logger) (*Registry, error) {
	if path == "" {
		return nil, fmt.Errorf("registry path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	r := NewWithDB(db, log)
	if err := r.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// NewWithDB wraps an existing database handle. The caller is responsible for
// calling Init before use.
func NewWithDB(db *sql.DB, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Registry{db: db, logger: log}
}

// Init creates the registry schema if it does not exist.
func (r *Registry) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS peers (
		url TEXT PRIMARY KEY,
		last_seen TIMESTAMP NOT NULL,
		last_errored TIMESTAMP
	)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to initialize registry schema: %w", err)
	}
	return nil
}

// UpsertPeer records that a peer was seen now, inserting it if unknown.
func (r *Registry) UpsertPeer(ctx context.Context, url string) error {
	if url == "" {
		return fmt.Errorf("peer URL is empty")
	}

	query := `INSERT INTO peers (url, last_seen) VALUES (?, ?)
		ON CONFLICT(url) DO UPDATE SET last_seen = excluded.last_seen`
	if _, err := r.db.ExecContext(ctx, query, url, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert peer %s: %w", url, err)
	}
	return nil
}

// MarkErrored records that a fetch from the peer failed. Unknown peers are
// ignored.
func (r *Registry) MarkErrored(ctx context.Context, url string) error {
	query := `UPDATE peers SET last_errored = ? WHERE url = ?`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), url); err != nil {
		return fmt.Errorf("failed to mark peer %s errored: %w", url, err)
	}
	return nil
}

// ListPeers returns every known peer ordered by URL.
func (r *Registry) ListPeers(ctx context.Context) ([]Peer, error) {
	query := `SELECT url, last_seen, last_errored FROM peers ORDER BY url`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list peers: %w", err)
	}
	defer rows.Close()

	var peers []Peer
	for rows.Next() {
		var (
			p       Peer
			errored sql.NullTime
		)
		if err := rows.Scan(&p.URL, &p.LastSeen, &errored); err != nil {
			return nil, fmt.Errorf("failed to scan peer row: %w", err)
		}
		if errored.Valid {
			t := errored.Time
			p.LastErrored = &t
		}
		peers = append(peers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate peer rows: %w", err)
	}
	return peers, nil
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
