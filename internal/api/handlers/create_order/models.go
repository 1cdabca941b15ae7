package create_order

import (
	"time"

	"github.com/glowdesk/booking-engine/internal/domain"
	createOrder "github.com/glowdesk/booking-engine/internal/usecase/create_order"
	"github.com/glowdesk/booking-engine/pkg/types"
)

// CreateOrderRequest HTTP request model
type CreateOrderRequest struct {
	UserID     int64   `json:"userId"`
	SalonID    int64   `json:"salonId"`
	ServiceIDs []int64 `json:"serviceIds"`
	Date       string  `json:"date"`      // "2026-03-15"
	StartTime  string  `json:"startTime"` // "10:00"
}

// CreateOrderResponse HTTP response model
type CreateOrderResponse struct {
	BookingID       int64             `json:"bookingId"`
	OrderID         string            `json:"orderId"`
	AmountMinor     int64             `json:"amountMinor"`
	Currency        string            `json:"currency"`
	Status          string            `json:"status"`
	BookingDate     string            `json:"bookingDate"`
	StartTime       string            `json:"startTime"`
	DurationMinutes int               `json:"durationMinutes"`
	Services        []ServiceSnapshot `json:"services"`
	HoldExpiresAt   string            `json:"holdExpiresAt"` // ISO 8601
}

// ServiceSnapshot снапшот услуги в составе заказа
type ServiceSnapshot struct {
	ServiceID       int64  `json:"serviceId"`
	Name            string `json:"name"`
	PriceMinor      int64  `json:"priceMinor"`
	DurationMinutes int    `json:"durationMinutes"`
}

// ToUseCaseRequest конвертирует HTTP request в запрос use case
func (r *CreateOrderRequest) ToUseCaseRequest() (*createOrder.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createOrder.Request{
		UserID:     r.UserID,
		SalonID:    r.SalonID,
		ServiceIDs: r.ServiceIDs,
		Date:       date,
		StartTime:  startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createOrder.Response) *CreateOrderResponse {
	services := make([]ServiceSnapshot, len(resp.Services))
	for i, snap := range resp.Services {
		services[i] = ServiceSnapshot{
			ServiceID:       snap.ServiceID,
			Name:            snap.Name,
			PriceMinor:      snap.PriceMinor,
			DurationMinutes: snap.DurationMinutes,
		}
	}

	return &CreateOrderResponse{
		BookingID:       resp.BookingID,
		OrderID:         resp.OrderID,
		AmountMinor:     resp.AmountMinor,
		Currency:        resp.Currency,
		Status:          resp.Status,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Services:        services,
		HoldExpiresAt:   resp.HoldExpiresAt.Format(time.RFC3339),
	}
}
