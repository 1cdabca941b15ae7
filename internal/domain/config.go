package domain

import "time"

// SalonSlotsConfig represents the booking configuration for a salon.
// Supports hierarchical configuration:
// 1. Service-specific (salon_id, service_id)
// 2. Salon-wide (salon_id, NULL)
type SalonSlotsConfig struct {
	ID                      int64
	SalonID                 int64
	ServiceID               *int64 // NULL = config for all services of the salon
	SlotGranularityMinutes  int    // Шаг сетки слотов
	MaxConcurrentBookings   int    // Количество кресел (мест одновременного обслуживания)
	AdvanceBookingDays      int    // 0 = unlimited
	MinBookingNoticeMinutes int
	HoldTimeoutMinutes      int // Сколько pending_payment удерживает место
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// IsSalonWide returns true if this config applies to every service of the salon
func (c *SalonSlotsConfig) IsSalonWide() bool {
	return c.ServiceID == nil
}

// IsServiceSpecific returns true if this config is for a specific service
func (c *SalonSlotsConfig) IsServiceSpecific() bool {
	return c.ServiceID != nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *SalonSlotsConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// HoldTimeout returns the soft-hold duration for pending_payment bookings
func (c *SalonSlotsConfig) HoldTimeout() time.Duration {
	return time.Duration(c.HoldTimeoutMinutes) * time.Minute
}

// DefaultSlotsConfig returns the package defaults used when a salon has no stored config
func DefaultSlotsConfig() *SalonSlotsConfig {
	return &SalonSlotsConfig{
		SlotGranularityMinutes:  DefaultSlotGranularityMinutes,
		MaxConcurrentBookings:   DefaultMaxConcurrentBookings,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
		HoldTimeoutMinutes:      DefaultHoldTimeoutMinutes,
	}
}
