package calculator

import (
	"fmt"
	"math"
)

// DefaultLateFeeRate charges late hours at the normal hourly rate.
const DefaultLateFeeRate = 1.0

// OnTimeNote is the system note written for a bike returned within its planned hours.
const OnTimeNote = "Returned on time."

// FeeInput holds everything needed to bill a returned bike.
type FeeInput struct {
	PlannedHours float64 // hours booked at checkout
	HourlyRate   float64 // rate captured on the ticket at checkout
	HoursRented  float64 // actual elapsed hours, may be fractional
	LateFeeRate  float64 // multiplier applied to the hourly rate for late hours
}

// Fee is the billing breakdown for a returned bike.
type Fee struct {
	BaseFee   float64
	LateHours float64
	LateFee   float64
	Total     float64
	Overdue   bool
}

// CalculateFee bills a rental.
// Based on the rule:
//
//	base  = ceil(planned_hours) × hourly_rate
//	late  = (hours_rented − planned_hours) × hourly_rate × late_fee_rate, only when overdue
//	total = round(base + late, 2)
//
// The base fee depends on the booked hours, not the elapsed time, so an early
// return still pays for every planned hour.
func CalculateFee(in FeeInput) (Fee, error) {
	if in.PlannedHours <= 0 {
		return Fee{}, fmt.Errorf("planned hours must be positive")
	}
	if in.HourlyRate < 0 {
		return Fee{}, fmt.Errorf("hourly rate cannot be negative")
	}
	if in.LateFeeRate < 0 {
		return Fee{}, fmt.Errorf("late fee rate cannot be negative")
	}

	fee := Fee{
		BaseFee: math.Ceil(in.PlannedHours) * in.HourlyRate,
	}

	if in.HoursRented > in.PlannedHours {
		fee.Overdue = true
		fee.LateHours = in.HoursRented - in.PlannedHours
		fee.LateFee = fee.LateHours * in.HourlyRate * in.LateFeeRate
	}

	fee.Total = RoundCents(fee.BaseFee + fee.LateFee)
	return fee, nil
}

// Notes describes the outcome of a return for the ticket's system notes.
func (f Fee) Notes(lateFeeRate float64) string {
	if !f.Overdue {
		return OnTimeNote
	}
	return fmt.Sprintf("Overdue by %.2f hours. Original fee: $%.2f. Late fee: $%.2f at %.2fx the hourly rate.",
		f.LateHours, f.BaseFee, f.LateFee, lateFeeRate)
}

// RoundCents rounds an amount to 2 decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
