package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/honkyrot/BikeRentalSystem/internal/models"
)

func (s *SQLiteStore) loadTickets(ctx context.Context) ([]models.Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status,
		        bike_id, bike_make, bike_model, bike_hourly_rate, bike_status,
		        customer_id, customer_name, customer_phone,
		        start_time, planned_hours, end_time, total_fee, system_notes, personal_notes
		 FROM tickets ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		var (
			t                  models.Ticket
			status, bikeStatus string
			customerID         sql.NullInt64
			start, end         string
		)
		err := rows.Scan(&t.ID, &status,
			&t.Bike.ID, &t.Bike.Make, &t.Bike.Model, &t.Bike.HourlyRate, &bikeStatus,
			&customerID, &t.Customer.Name, &t.Customer.Phone,
			&start, &t.PlannedHours, &end, &t.TotalFee, &t.SystemNotes, &t.PersonalNotes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}

		t.Status = models.TicketStatus(status)
		t.Bike.Status = models.BikeStatus(bikeStatus)
		if customerID.Valid {
			id := int(customerID.Int64)
			t.Customer.ID = &id
		}
		if t.StartTime, err = models.ParseTimestamp(start); err != nil {
			return nil, fmt.Errorf("ticket %d start_time: %w", t.ID, err)
		}
		if t.EndTime, err = models.ParseTimestamp(end); err != nil {
			return nil, fmt.Errorf("ticket %d end_time: %w", t.ID, err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}
	return tickets, nil
}

func saveTickets(ctx context.Context, tx *sql.Tx, tickets []models.Ticket) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM tickets"); err != nil {
		return fmt.Errorf("failed to clear tickets: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tickets (id, status,
		        bike_id, bike_make, bike_model, bike_hourly_rate, bike_status,
		        customer_id, customer_name, customer_phone,
		        start_time, planned_hours, end_time, total_fee, system_notes, personal_notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare ticket insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tickets {
		var customerID interface{} = nil
		if t.Customer.ID != nil {
			customerID = *t.Customer.ID
		}
		_, err := stmt.ExecContext(ctx, t.ID, string(t.Status),
			t.Bike.ID, t.Bike.Make, t.Bike.Model, t.Bike.HourlyRate, string(t.Bike.Status),
			customerID, t.Customer.Name, t.Customer.Phone,
			t.StartTime.String(), t.PlannedHours, t.EndTime.String(), t.TotalFee, t.SystemNotes, t.PersonalNotes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ticket %d: %w", t.ID, err)
		}
	}
	return nil
}
