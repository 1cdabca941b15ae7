package update_salon_config

import (
	"github.com/glowdesk/booking-engine/internal/service/config/models"
)

// UpdateSalonConfigRequest HTTP request model
type UpdateSalonConfigRequest struct {
	UserID                  int64  `json:"userId"`
	ServiceID               *int64 `json:"serviceId,omitempty"`
	SlotGranularityMinutes  int    `json:"slotGranularityMinutes"`
	MaxConcurrentBookings   int    `json:"maxConcurrentBookings"`
	AdvanceBookingDays      int    `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`
	HoldTimeoutMinutes      int    `json:"holdTimeoutMinutes"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSalonConfigRequest) ToServiceRequest(salonID int64) *models.UpsertConfigRequest {
	return &models.UpsertConfigRequest{
		UserID:                  r.UserID,
		SalonID:                 salonID,
		ServiceID:               r.ServiceID,
		SlotGranularityMinutes:  r.SlotGranularityMinutes,
		MaxConcurrentBookings:   r.MaxConcurrentBookings,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		HoldTimeoutMinutes:      r.HoldTimeoutMinutes,
	}
}
