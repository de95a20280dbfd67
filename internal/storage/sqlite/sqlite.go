// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/honkyrot/BikeRentalSystem/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
// Both collections live in one database file and are saved in one
// transaction, so inventory and tickets can never drift apart on disk.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the inventory in insertion order and the tickets by ID.
func (s *SQLiteStore) Load(ctx context.Context) (storage.Snapshot, error) {
	bikes, err := s.loadBikes(ctx)
	if err != nil {
		return storage.Snapshot{}, err
	}
	tickets, err := s.loadTickets(ctx)
	if err != nil {
		return storage.Snapshot{}, err
	}
	lastBikeID, err := s.loadCounter(ctx, lastBikeIDCounter)
	if err != nil {
		return storage.Snapshot{}, err
	}
	return storage.Snapshot{Bikes: bikes, Tickets: tickets, LastBikeID: lastBikeID}, nil
}

// Save replaces both tables inside a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap storage.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveBikes(ctx, tx, snap.Bikes); err != nil {
		return err
	}
	if err := saveTickets(ctx, tx, snap.Tickets); err != nil {
		return err
	}
	if err := saveCounter(ctx, tx, lastBikeIDCounter, snap.LastBikeID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
