package confirm_booking

import (
	"github.com/glowdesk/booking-engine/internal/domain"
	confirmBooking "github.com/glowdesk/booking-engine/internal/usecase/confirm_booking"
)

// ConfirmBookingRequest HTTP request model: подписанный callback провайдера
type ConfirmBookingRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// ConfirmBookingResponse HTTP response model
type ConfirmBookingResponse struct {
	BookingID       int64  `json:"bookingId"`
	SalonID         int64  `json:"salonId"`
	UserID          int64  `json:"userId"`
	BookingDate     string `json:"bookingDate"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	PaymentID       string `json:"paymentId"`
}

// ToUseCaseRequest конвертирует HTTP request в запрос use case
func (r *ConfirmBookingRequest) ToUseCaseRequest() *confirmBooking.Request {
	return &confirmBooking.Request{
		OrderID:   r.OrderID,
		PaymentID: r.PaymentID,
		Signature: r.Signature,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmBooking.Response) *ConfirmBookingResponse {
	return &ConfirmBookingResponse{
		BookingID:       resp.BookingID,
		SalonID:         resp.SalonID,
		UserID:          resp.UserID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		PaymentID:       resp.PaymentID,
	}
}
