package create_order

import (
	"time"

	"github.com/glowdesk/booking-engine/internal/domain"
	"github.com/glowdesk/booking-engine/pkg/types"
)

// Request модель запроса на выпуск платежного ордера под бронирование
type Request struct {
	UserID     int64            // ID пользователя
	SalonID    int64            // ID салона
	ServiceIDs []int64          // ID выбранных услуг
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
}

// Response модель ответа с платежным ордером и созданным pending-бронированием
type Response struct {
	BookingID       int64                    // ID созданного бронирования
	OrderID         string                   // ID платежного ордера провайдера
	AmountMinor     int64                    // Итоговая сумма в минорных единицах
	Currency        string                   // Валюта салона
	Status          string                   // Статус бронирования (pending_payment)
	BookingDate     time.Time                // Дата бронирования
	StartTime       types.TimeString         // Время начала
	DurationMinutes int                      // Суммарная длительность услуг
	Services        []domain.ServiceSnapshot // Снапшоты услуг на момент заказа
	HoldExpiresAt   time.Time                // Дедлайн мягкого удержания слота
}
