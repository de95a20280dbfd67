package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/honkyrot/BikeRentalSystem/internal/models"
)

// BikeUpdate is a partial edit of a bike record. Nil fields are left unchanged.
type BikeUpdate struct {
	Make       *string
	Model      *string
	HourlyRate *float64
	Status     *models.BikeStatus
}

// NextBikeID returns the ID AddBike assigns to a bike added without one.
// IDs of removed bikes are never handed out again.
func (l *Ledger) NextBikeID() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastBikeID + 1
}

// AddBike appends a bike to the inventory and persists it.
// A zero ID is replaced with the next sequential ID; an empty status means available.
func (l *Ledger) AddBike(ctx context.Context, bike models.Bike) (models.Bike, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if bike.Status == "" {
		bike.Status = models.BikeAvailable
	}
	if err := validateStruct(bike); err != nil {
		return models.Bike{}, err
	}
	if bike.Status == models.BikeRented {
		return models.Bike{}, ValidationError{Field: "status", Message: "a new bike cannot start out rented"}
	}
	bike.RentedBy = nil

	switch {
	case bike.ID < 0:
		return models.Bike{}, ValidationError{Field: "id", Message: "cannot be negative"}
	case bike.ID == 0:
		bike.ID = l.lastBikeID + 1
	case l.bikeIndex(bike.ID) >= 0:
		return models.Bike{}, fmt.Errorf("%w: %d", ErrDuplicateBike, bike.ID)
	}

	bikes := append(slices.Clone(l.bikes), bike)
	if err := l.commit(ctx, bikes, l.tickets); err != nil {
		return models.Bike{}, err
	}
	l.lastBikeID = max(l.lastBikeID, bike.ID)

	slog.Info("Bike added",
		"bike_id", bike.ID,
		"make", bike.Make,
		"model", bike.Model,
		"hourly_rate", bike.HourlyRate,
	)
	return bike, nil
}

// UpdateBike applies a partial edit to a bike and persists it in one write.
//
// The rented status is owned by the ticket lifecycle: a bike cannot be moved
// into or out of "rented" here, only by CreateTicket and CloseTicket.
func (l *Ledger) UpdateBike(ctx context.Context, id int, upd BikeUpdate) (models.Bike, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.bikeIndex(id)
	if idx < 0 {
		return models.Bike{}, fmt.Errorf("%w: %d", ErrBikeNotFound, id)
	}

	if upd.Status != nil && !upd.Status.Valid() {
		return models.Bike{}, ValidationError{Field: "status", Message: "must be one of: available rented maintenance unavailable missing"}
	}

	bike := l.bikes[idx]
	if upd.Make != nil {
		bike.Make = *upd.Make
	}
	if upd.Model != nil {
		bike.Model = *upd.Model
	}
	if upd.HourlyRate != nil {
		bike.HourlyRate = *upd.HourlyRate
	}
	if upd.Status != nil && *upd.Status != bike.Status {
		if *upd.Status == models.BikeRented || bike.Status == models.BikeRented {
			return models.Bike{}, ValidationError{Field: "status", Message: "rented status is set only by opening or closing a ticket"}
		}
		bike.Status = *upd.Status
	}
	if err := validateStruct(bike); err != nil {
		return models.Bike{}, err
	}

	bikes := slices.Clone(l.bikes)
	bikes[idx] = bike
	if err := l.commit(ctx, bikes, l.tickets); err != nil {
		return models.Bike{}, err
	}

	slog.Info("Bike updated", "bike_id", bike.ID, "status", bike.Status, "hourly_rate", bike.HourlyRate)
	return bike, nil
}

// SetBikeStatus changes a bike's status, e.g. to send it for maintenance.
func (l *Ledger) SetBikeStatus(ctx context.Context, id int, status models.BikeStatus) (models.Bike, error) {
	return l.UpdateBike(ctx, id, BikeUpdate{Status: &status})
}

// RenameBike changes a bike's make and model.
func (l *Ledger) RenameBike(ctx context.Context, id int, newMake, newModel string) (models.Bike, error) {
	return l.UpdateBike(ctx, id, BikeUpdate{Make: &newMake, Model: &newModel})
}

// RepriceBike changes the hourly rate for future rentals. Open tickets keep
// the rate they were booked at.
func (l *Ledger) RepriceBike(ctx context.Context, id int, hourlyRate float64) (models.Bike, error) {
	return l.UpdateBike(ctx, id, BikeUpdate{HourlyRate: &hourlyRate})
}

// RemoveBike deletes a bike from the inventory. Remaining bikes keep their IDs.
// A bike that is rented out cannot be removed until its ticket is closed.
func (l *Ledger) RemoveBike(ctx context.Context, id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.bikeIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrBikeNotFound, id)
	}
	if l.bikes[idx].Status == models.BikeRented {
		return fmt.Errorf("%w: %d", ErrBikeRented, id)
	}

	bikes := slices.Delete(slices.Clone(l.bikes), idx, idx+1)
	if err := l.commit(ctx, bikes, l.tickets); err != nil {
		return err
	}

	slog.Info("Bike removed", "bike_id", id)
	return nil
}

// GetBike returns the bike with the given ID.
func (l *Ledger) GetBike(id int) (models.Bike, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.bikeIndex(id)
	if idx < 0 {
		return models.Bike{}, fmt.Errorf("%w: %d", ErrBikeNotFound, id)
	}
	return l.bikes[idx], nil
}

// ListAll returns every bike in inventory order.
func (l *Ledger) ListAll() []models.Bike {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.bikes)
}

// ListAvailable returns the bikes that can be rented right now.
func (l *Ledger) ListAvailable() []models.Bike {
	return l.ListByStatus(models.BikeAvailable)
}

// ListByStatus returns the bikes with the given status in inventory order.
func (l *Ledger) ListByStatus(status models.BikeStatus) []models.Bike {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []models.Bike{}
	for _, b := range l.bikes {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// SearchBikes returns bikes whose ID, make or model contains query,
// ignoring case. An empty query matches every bike.
func (l *Ledger) SearchBikes(query string) []models.Bike {
	l.mu.Lock()
	defer l.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	out := []models.Bike{}
	for _, b := range l.bikes {
		if query == "" ||
			strings.Contains(strconv.Itoa(b.ID), query) ||
			strings.Contains(strings.ToLower(b.Make), query) ||
			strings.Contains(strings.ToLower(b.Model), query) {
			out = append(out, b)
		}
	}
	return out
}

func (l *Ledger) bikeIndex(id int) int {
	for i, b := range l.bikes {
		if b.ID == id {
			return i
		}
	}
	return -1
}
