package create_order

import (
	"errors"
	"net/http"

	"github.com/glowdesk/booking-engine/internal/api/handlers"
	createOrder "github.com/glowdesk/booking-engine/internal/usecase/create_order"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateOrTime  = "invalid date or startTime format"
	msgSalonNotFound      = "salon not found"
	msgServiceNotFound    = "service not found"
	msgDateInPast         = "date must not be in the past"
	msgDateTooFar         = "date exceeds the advance booking limit"
	msgSalonClosed        = "salon is closed on this date"
	msgInvalidTimeSlot    = "requested time slot is invalid"
	msgTooLateToBook      = "too late to book this slot"
	msgSlotNotAvailable   = "slot is no longer available"
	msgInvalidAmount      = "order amount must be positive"
	msgPaymentProvider    = "payment provider is unavailable, try again later"
)

type Handler struct {
	useCase CreateOrderUseCase
	logger  Logger
}

func NewHandler(useCase CreateOrderUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/orders
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Декодируем body
	var req CreateOrderRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /orders - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем в запрос use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /orders - Invalid date or time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createOrder.ErrSalonNotFound):
			h.logger.Warn("POST /orders - Salon not found: salon_id=%d", req.SalonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, createOrder.ErrServiceNotFound):
			h.logger.Warn("POST /orders - Service not found: salon_id=%d, service_ids=%v", req.SalonID, req.ServiceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createOrder.ErrInvalidDate):
			h.logger.Warn("POST /orders - Date in past: salon_id=%d, date=%s", req.SalonID, req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createOrder.ErrDateTooFarInFuture):
			h.logger.Warn("POST /orders - Date too far: salon_id=%d, date=%s", req.SalonID, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createOrder.ErrSalonClosed):
			h.logger.Warn("POST /orders - Salon closed: salon_id=%d, date=%s", req.SalonID, req.Date)
			handlers.RespondConflict(w, msgSalonClosed)

		case errors.Is(err, createOrder.ErrInvalidTimeSlot):
			h.logger.Warn("POST /orders - Invalid time slot: salon_id=%d, time=%s", req.SalonID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createOrder.ErrTooLateToBook):
			h.logger.Warn("POST /orders - Too late to book: salon_id=%d, time=%s", req.SalonID, req.StartTime)
			handlers.RespondConflict(w, msgTooLateToBook)

		case errors.Is(err, createOrder.ErrSlotNotAvailable):
			h.logger.Warn("POST /orders - Slot not available: salon_id=%d, date=%s, time=%s",
				req.SalonID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createOrder.ErrInvalidAmount):
			h.logger.Warn("POST /orders - Invalid amount: salon_id=%d, service_ids=%v", req.SalonID, req.ServiceIDs)
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.Is(err, createOrder.ErrPaymentProvider):
			h.logger.Error("POST /orders - Payment provider failed: salon_id=%d, error=%v", req.SalonID, err)
			handlers.RespondBadGateway(w, msgPaymentProvider)

		case errors.Is(err, createOrder.ErrInvalidInput):
			h.logger.Warn("POST /orders - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /orders - Failed to create order: salon_id=%d, user_id=%d, error=%v",
				req.SalonID, req.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orders - Order created successfully: booking_id=%d, order_id=%s, user_id=%d",
		result.BookingID, result.OrderID, req.UserID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
