// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/honkyrot/BikeRentalSystem/internal/models"
)

// Snapshot is the full persisted state of the shop: the inventory and the
// ticket history, always saved and loaded together as a matched pair.
type Snapshot struct {
	// Bikes in inventory order.
	Bikes []models.Bike

	// Tickets ordered by ticket ID.
	Tickets []models.Ticket

	// LastBikeID is the highest bike ID ever assigned, including bikes since
	// removed. Backends that cannot record it load it as 0.
	LastBikeID int
}

// Store defines the interface for ledger persistence.
// This abstraction allows swapping storage backends (JSON files, SQLite)
// without changing the ledger.
type Store interface {
	// Load reads both collections. A collection that has never been saved
	// comes back empty rather than as an error.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces both persisted collections with the given snapshot.
	// Saves are full rewrites, never incremental.
	Save(ctx context.Context, snap Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}
