package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/glowdesk/booking-engine/internal/api/handlers"
	confirmBooking "github.com/glowdesk/booking-engine/internal/usecase/confirm_booking"
)

const (
	msgInvalidRequestBody    = "invalid request body"
	msgPaymentVerification   = "payment signature verification failed"
	msgOrderNotFound         = "order not found"
	msgAlreadyPaid           = "booking already confirmed with a different payment"
	msgSlotConflict          = "slot is no longer available, payment will be refunded"
	msgBookingNotConfirmable = "booking cannot be confirmed"
)

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/confirm
// Вызывается после оплаты с подписанным подтверждением платежа.
// Повторная доставка того же платежа идемпотентна.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Декодируем body
	var req ConfirmBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, confirmBooking.ErrPaymentVerification):
			h.logger.Warn("POST /bookings/confirm - Signature verification failed: order_id=%s, payment_id=%s",
				req.OrderID, req.PaymentID)
			handlers.RespondPaymentRequired(w, msgPaymentVerification)

		case errors.Is(err, confirmBooking.ErrOrderNotFound):
			h.logger.Warn("POST /bookings/confirm - Order not found: order_id=%s", req.OrderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, confirmBooking.ErrAlreadyPaid):
			h.logger.Warn("POST /bookings/confirm - Already paid: order_id=%s, payment_id=%s",
				req.OrderID, req.PaymentID)
			handlers.RespondConflict(w, msgAlreadyPaid)

		case errors.Is(err, confirmBooking.ErrSlotConflict):
			h.logger.Error("POST /bookings/confirm - Slot conflict: order_id=%s, payment_id=%s",
				req.OrderID, req.PaymentID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, confirmBooking.ErrBookingNotConfirmable):
			h.logger.Warn("POST /bookings/confirm - Not confirmable: order_id=%s", req.OrderID)
			handlers.RespondConflict(w, msgBookingNotConfirmable)

		case errors.Is(err, confirmBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/confirm - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings/confirm - Failed to confirm booking: order_id=%s, error=%v",
				req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/confirm - Booking confirmed: booking_id=%d, payment_id=%s, already_confirmed=%t",
		result.BookingID, result.PaymentID, result.AlreadyConfirmed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
