package domain

import "github.com/glowdesk/booking-engine/pkg/types"

// AvailableSlot represents a candidate start time available for booking.
// Computed on demand, never persisted.
type AvailableSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
	AvailableSeats  int // Свободные кресла на весь интервал слота
	TotalSeats      int // Всего кресел в салоне
}

// IsFull returns true if the slot has no available seats
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSeats <= 0
}

// IsPartiallyAvailable returns true if the slot has some but not all seats available
func (s *AvailableSlot) IsPartiallyAvailable() bool {
	return s.AvailableSeats > 0 && s.AvailableSeats < s.TotalSeats
}

// IsFullyAvailable returns true if all seats are available
func (s *AvailableSlot) IsFullyAvailable() bool {
	return s.AvailableSeats == s.TotalSeats
}
