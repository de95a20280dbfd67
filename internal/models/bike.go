package models

// BikeStatus is the rentability state of a bike.
type BikeStatus string

const (
	BikeAvailable   BikeStatus = "available"
	BikeRented      BikeStatus = "rented"
	BikeMaintenance BikeStatus = "maintenance"
	BikeUnavailable BikeStatus = "unavailable"
	BikeMissing     BikeStatus = "missing"
)

// BikeStatuses lists every valid status in display order.
var BikeStatuses = []BikeStatus{
	BikeAvailable,
	BikeRented,
	BikeMaintenance,
	BikeUnavailable,
	BikeMissing,
}

// Valid reports whether s is one of the known statuses.
func (s BikeStatus) Valid() bool {
	for _, known := range BikeStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Bike is a bike in the shop inventory.
type Bike struct {
	// ID is assigned sequentially and never reused after a bike is removed.
	ID int `json:"id"`

	Make  string `json:"make" validate:"required"`
	Model string `json:"model" validate:"required"`

	// Status is the single source of truth for whether the bike can be rented.
	Status BikeStatus `json:"status" validate:"omitempty,oneof=available rented maintenance unavailable missing"`

	// HourlyRate is the price per planned hour for new rentals.
	HourlyRate float64 `json:"hourly_rate" validate:"gte=0"`

	// RentedBy is the name of the customer holding the bike, nil when not rented.
	// Advisory only; the active ticket is authoritative.
	RentedBy *string `json:"rented_by"`
}

// Snapshot copies the fields a ticket needs to bill this bike.
func (b Bike) Snapshot() BikeSnapshot {
	return BikeSnapshot{
		ID:         b.ID,
		Make:       b.Make,
		Model:      b.Model,
		HourlyRate: b.HourlyRate,
		Status:     b.Status,
	}
}

// BikeSnapshot is the copy of a bike embedded in a ticket.
type BikeSnapshot struct {
	ID         int        `json:"id"`
	Make       string     `json:"make"`
	Model      string     `json:"model"`
	HourlyRate float64    `json:"hourly_rate"`
	Status     BikeStatus `json:"status"`
}
