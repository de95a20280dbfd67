// Package jsonfile persists the ledger as two indented JSON files,
// inventory.json and tickets.json.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/honkyrot/BikeRentalSystem/internal/models"
	"github.com/honkyrot/BikeRentalSystem/internal/storage"
)

const (
	// InventoryFile holds the bike inventory.
	InventoryFile = "inventory.json"
	// TicketsFile holds every ticket ever opened.
	TicketsFile = "tickets.json"
)

// Ensure FileStore implements storage.Store
var _ storage.Store = (*FileStore)(nil)

// FileStore implements storage.Store with two JSON files in one directory.
type FileStore struct {
	inventoryPath string
	ticketsPath   string
}

// New creates a FileStore rooted at dir, creating the directory if needed.
func New(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{
		inventoryPath: filepath.Join(dir, InventoryFile),
		ticketsPath:   filepath.Join(dir, TicketsFile),
	}, nil
}

// Load reads both files. A missing or unreadable file yields an empty
// collection and a warning instead of an error.
func (s *FileStore) Load(_ context.Context) (storage.Snapshot, error) {
	var snap storage.Snapshot

	bikes, err := readCollection[models.Bike](s.inventoryPath)
	if err != nil {
		slog.Warn("Inventory file unreadable, starting with empty inventory", "path", s.inventoryPath, "error", err)
	}
	snap.Bikes = bikes

	tickets, err := readCollection[models.Ticket](s.ticketsPath)
	if err != nil {
		slog.Warn("Tickets file unreadable, starting with no tickets", "path", s.ticketsPath, "error", err)
	}
	snap.Tickets = tickets

	return snap, nil
}

// Save rewrites both files. Each file is replaced atomically via a temp file
// and rename, so a crash never leaves a half-written file behind.
func (s *FileStore) Save(_ context.Context, snap storage.Snapshot) error {
	if err := writeCollection(s.inventoryPath, snap.Bikes); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	if err := writeCollection(s.ticketsPath, snap.Tickets); err != nil {
		return fmt.Errorf("failed to save tickets: %w", err)
	}
	return nil
}

// Close is a no-op; files are not held open between saves.
func (s *FileStore) Close() error {
	return nil
}

// readCollection decodes a JSON array. A missing file is not an error.
func readCollection[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return []T{}, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return []T{}, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// writeCollection encodes items as an indented JSON array and swaps it into place.
func writeCollection[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
