package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes  = 30
	DefaultMaxConcurrentBookings   = 0 // 0 = использовать capacitySeats из справочника салона
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
	DefaultHoldTimeoutMinutes      = 10
)

// Business validation constants
const (
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 240
	MinConcurrentBookings       = 0
	MaxConcurrentBookingsLimit  = 100
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeLimit       = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MinHoldTimeoutMinutes       = 1
	MaxHoldTimeoutMinutes       = 120
	MaxServicesPerBooking       = 10
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses статусы, которые могут занимать место в слоте.
// pending_payment учитывается только до истечения hold timeout,
// это проверяется отдельно (hold_expires_at).
var OccupyingStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusConfirmed,
}

// InactiveStatuses терминальные статусы; не занимают место и
// исключаются из выборок активных бронирований
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}

// ValidStatuses все допустимые статусы бронирования
var ValidStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
