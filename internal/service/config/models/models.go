package models

import (
	"time"

	"github.com/glowdesk/booking-engine/internal/domain"
)

// Request модели

// UpsertConfigRequest запрос на создание или обновление конфигурации слотов.
// Конфигурация адресуется парой (salonId, serviceId); существующая запись
// перезаписывается.
type UpsertConfigRequest struct {
	UserID                  int64  `json:"userId"`
	SalonID                 int64  `json:"salonId"`
	ServiceID               *int64 `json:"serviceId,omitempty"`       // NULL = для всех услуг салона
	SlotGranularityMinutes  int    `json:"slotGranularityMinutes"`    // Шаг сетки слотов
	MaxConcurrentBookings   int    `json:"maxConcurrentBookings"`     // 0 = использовать capacitySeats салона
	AdvanceBookingDays      int    `json:"advanceBookingDays"`        // 0 = без ограничений
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`   // Минимальное время до начала слота
	HoldTimeoutMinutes      int    `json:"holdTimeoutMinutes"`        // Время удержания слота до оплаты
}

// GetConfigRequest запрос на получение действующей конфигурации
// с иерархическим поиском (услуга -> салон -> дефолты)
type GetConfigRequest struct {
	SalonID   int64  `json:"salonId"`
	ServiceID *int64 `json:"serviceId,omitempty"`
}

// Response модели

// ConfigResponse ответ с данными конфигурации слотов
type ConfigResponse struct {
	ID                      int64     `json:"id"`
	SalonID                 int64     `json:"salonId"`
	ServiceID               *int64    `json:"serviceId,omitempty"`
	SlotGranularityMinutes  int       `json:"slotGranularityMinutes"`
	MaxConcurrentBookings   int       `json:"maxConcurrentBookings"`
	AdvanceBookingDays      int       `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int       `json:"minBookingNoticeMinutes"`
	HoldTimeoutMinutes      int       `json:"holdTimeoutMinutes"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// ConfigListResponse ответ со списком конфигураций
type ConfigListResponse struct {
	Configs []ConfigResponse `json:"configs"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.SalonSlotsConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		ID:                      c.ID,
		SalonID:                 c.SalonID,
		ServiceID:               c.ServiceID,
		SlotGranularityMinutes:  c.SlotGranularityMinutes,
		MaxConcurrentBookings:   c.MaxConcurrentBookings,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
		HoldTimeoutMinutes:      c.HoldTimeoutMinutes,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}

// FromDomainConfigList конвертирует список domain моделей в DTO
func FromDomainConfigList(configs []*domain.SalonSlotsConfig) *ConfigListResponse {
	if configs == nil {
		return &ConfigListResponse{
			Configs: []ConfigResponse{},
		}
	}

	resp := &ConfigListResponse{
		Configs: make([]ConfigResponse, len(configs)),
	}

	for i, config := range configs {
		if configResp := FromDomainConfig(config); configResp != nil {
			resp.Configs[i] = *configResp
		}
	}

	return resp
}

// ToDomainConfig конвертирует UpsertConfigRequest в domain модель
func (r *UpsertConfigRequest) ToDomainConfig() *domain.SalonSlotsConfig {
	return &domain.SalonSlotsConfig{
		SalonID:                 r.SalonID,
		ServiceID:               r.ServiceID,
		SlotGranularityMinutes:  r.SlotGranularityMinutes,
		MaxConcurrentBookings:   r.MaxConcurrentBookings,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		HoldTimeoutMinutes:      r.HoldTimeoutMinutes,
	}
}
