package config

import (
	"context"

	"github.com/glowdesk/booking-engine/internal/domain"
	"github.com/glowdesk/booking-engine/internal/integrations/salonservice"
)

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	GetBySalonAndService(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonSlotsConfig, error)
	GetConfigWithHierarchy(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonSlotsConfig, error)
	GetAllBySalon(ctx context.Context, salonID int64) ([]*domain.SalonSlotsConfig, error)
	Upsert(ctx context.Context, cfg *domain.SalonSlotsConfig) (*domain.SalonSlotsConfig, error)
}

// SalonServiceClient интерфейс клиента справочника салонов
type SalonServiceClient interface {
	GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error)
	GetService(ctx context.Context, salonID, serviceID int64) (*salonservice.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
