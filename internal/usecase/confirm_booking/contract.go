package confirm_booking

import (
	"context"
	"time"

	"github.com/glowdesk/booking-engine/internal/domain"
	"github.com/glowdesk/booking-engine/internal/integrations/payment"
	"github.com/glowdesk/booking-engine/internal/integrations/salonservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error)
	GetOccupyingForDate(ctx context.Context, salonID int64, date time.Time, now time.Time) ([]*domain.Booking, error)
	Confirm(ctx context.Context, id int64, paymentID, signature string) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonSlotsConfig, error)
}

// SalonServiceClient интерфейс клиента справочника салонов
type SalonServiceClient interface {
	GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error)
}

// PaymentVerifier интерфейс проверки подписи платежного callback
type PaymentVerifier interface {
	VerifySignature(proof payment.Proof) bool
}

// SlotCache интерфейс для инвалидации кэша слотов (может быть nil)
type SlotCache interface {
	InvalidateDate(ctx context.Context, salonID int64, date string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для учета платежей, требующих ручного разбора
type Metrics interface {
	IncManualReconciliation(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
