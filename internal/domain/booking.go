package domain

import (
	"time"

	"github.com/glowdesk/booking-engine/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	// StatusPendingPayment бронирование создано вместе с платежным ордером,
	// слот мягко удержан до истечения hold timeout
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusCancelled      BookingStatus = "cancelled"
	StatusCompleted      BookingStatus = "completed"
	StatusNoShow         BookingStatus = "no_show"
)

// ServiceSnapshot denormalized copy of a salon service at booking time.
// Bookings keep snapshots, not live references, so later price or duration
// changes never corrupt history.
type ServiceSnapshot struct {
	ServiceID       int64  `json:"serviceId"`
	Name            string `json:"name"`
	PriceMinor      int64  `json:"priceMinor"`
	DurationMinutes int    `json:"durationMinutes"`
}

// PaymentRef reference to the external payment that backs a confirmed booking
type PaymentRef struct {
	OrderID   string
	PaymentID string
	Signature string
}

// Booking represents an appointment booking in the system
type Booking struct {
	ID              int64
	UserID          int64
	SalonID         int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int // Сумма длительностей услуг из снапшотов
	Status          BookingStatus

	// Снапшоты услуг и итоговая цена на момент бронирования
	Services        []ServiceSnapshot
	TotalPriceMinor int64
	Currency        string

	// Платежные реквизиты; заполняются частично при выпуске ордера
	// и полностью после верификации платежа
	OrderID          *string
	PaymentID        *string
	PaymentSignature *string

	// Дедлайн мягкого удержания слота для pending_payment
	HoldExpiresAt *time.Time

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime returns the scheduled end time (start + total duration)
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// PaymentReference returns the payment ref of a confirmed booking, nil otherwise
func (b *Booking) PaymentReference() *PaymentRef {
	if b.OrderID == nil || b.PaymentID == nil || b.PaymentSignature == nil {
		return nil
	}
	return &PaymentRef{
		OrderID:   *b.OrderID,
		PaymentID: *b.PaymentID,
		Signature: *b.PaymentSignature,
	}
}

// OccupiesSeatAt reports whether the booking holds a seat at the given moment.
// Confirmed bookings always occupy; pending_payment bookings occupy only until
// their hold expires. Terminal statuses never occupy.
func (b *Booking) OccupiesSeatAt(now time.Time) bool {
	switch b.Status {
	case StatusConfirmed:
		return true
	case StatusPendingPayment:
		return b.HoldExpiresAt != nil && now.Before(*b.HoldExpiresAt)
	default:
		return false
	}
}

// IsActive returns true if the booking is in a non-terminal state
func (b *Booking) IsActive() bool {
	return b.Status == StatusPendingPayment || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPendingPayment || b.Status == StatusConfirmed
}

// IsTerminal returns true for statuses a booking can never leave
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted || b.Status == StatusNoShow
}

// SalonBookingsFilter фильтр для получения бронирований салона
type SalonBookingsFilter struct {
	SalonID         int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли завершённые и отменённые бронирования
}
