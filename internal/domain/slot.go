package domain

import "github.com/dmarques-dev/salon-booking-service/pkg/types"

// Slot represents a candidate booking start time for a given date.
// Slots are derived at request time and never persisted.
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
}