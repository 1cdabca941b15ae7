package confirm_booking

import (
	"time"

	"github.com/glowdesk/booking-engine/pkg/types"
)

// Request подписанное подтверждение платежа из callback провайдера
type Request struct {
	OrderID   string // ID платежного ордера
	PaymentID string // ID платежа у провайдера
	Signature string // HMAC-подпись провайдера
}

// Response модель ответа с подтвержденным бронированием
type Response struct {
	BookingID        int64            // ID бронирования
	SalonID          int64            // ID салона
	UserID           int64            // ID пользователя
	BookingDate      time.Time        // Дата бронирования
	StartTime        types.TimeString // Время начала
	DurationMinutes  int              // Суммарная длительность услуг
	Status           string           // Статус бронирования (confirmed)
	PaymentID        string           // ID платежа
	AlreadyConfirmed bool             // true при повторной доставке того же платежа
}
