package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// lastBikeIDCounter keeps removed bikes' IDs from being handed out again
// after a restart.
const lastBikeIDCounter = "last_bike_id"

// loadCounter returns the named counter, or 0 if it was never saved.
func (s *SQLiteStore) loadCounter(ctx context.Context, name string) (int, error) {
	var value int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load counter %s: %w", name, err)
	}
	return value, nil
}

func saveCounter(ctx context.Context, tx *sql.Tx, name string, value int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO counters (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, name, value)
	if err != nil {
		return fmt.Errorf("failed to save counter %s: %w", name, err)
	}
	return nil
}
