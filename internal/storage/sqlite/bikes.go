package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/honkyrot/BikeRentalSystem/internal/models"
)

func (s *SQLiteStore) loadBikes(ctx context.Context) ([]models.Bike, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, make, model, status, hourly_rate, rented_by FROM bikes ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bikes: %w", err)
	}
	defer rows.Close()

	bikes := []models.Bike{}
	for rows.Next() {
		var (
			bike     models.Bike
			status   string
			rentedBy sql.NullString
		)
		if err := rows.Scan(&bike.ID, &bike.Make, &bike.Model, &status, &bike.HourlyRate, &rentedBy); err != nil {
			return nil, fmt.Errorf("failed to scan bike: %w", err)
		}
		bike.Status = models.BikeStatus(status)
		if rentedBy.Valid {
			name := rentedBy.String
			bike.RentedBy = &name
		}
		bikes = append(bikes, bike)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bikes: %w", err)
	}
	return bikes, nil
}

func saveBikes(ctx context.Context, tx *sql.Tx, bikes []models.Bike) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM bikes"); err != nil {
		return fmt.Errorf("failed to clear bikes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO bikes (id, position, make, model, status, hourly_rate, rented_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare bike insert: %w", err)
	}
	defer stmt.Close()

	for i, bike := range bikes {
		var rentedBy interface{} = nil
		if bike.RentedBy != nil {
			rentedBy = *bike.RentedBy
		}
		_, err := stmt.ExecContext(ctx,
			bike.ID, i, bike.Make, bike.Model, string(bike.Status), bike.HourlyRate, rentedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bike %d: %w", bike.ID, err)
		}
	}
	return nil
}
