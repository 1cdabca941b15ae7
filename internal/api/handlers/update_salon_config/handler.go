package update_salon_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/glowdesk/booking-engine/internal/api/handlers"
	"github.com/glowdesk/booking-engine/internal/service/config"
)

const (
	msgInvalidSalonID     = "invalid salon id"
	msgInvalidRequestBody = "invalid request body"
	msgSalonNotFound      = "salon not found"
	msgServiceNotFound    = "service not found"
	msgForbidden          = "access denied"
	msgInvalidData        = "invalid config values"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/salons/{salonId}/config
// Создает или перезаписывает конфигурацию для пары (салон, услуга)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем salonId из URL
	vars := mux.Vars(r)
	salonIDStr := vars["salonId"]

	salonID, err := strconv.ParseInt(salonIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /salons/{id}/config - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	// Декодируем body
	var req UpdateSalonConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /salons/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Создаем или обновляем конфигурацию (сервис сам проверит права менеджера)
	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(salonID))
	if err != nil {
		switch {
		case errors.Is(err, config.ErrSalonNotFound):
			h.logger.Warn("PUT /salons/{id}/config - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, config.ErrServiceNotFound):
			h.logger.Warn("PUT /salons/{id}/config - Service not found: salon_id=%d, service_id=%v",
				salonID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, config.ErrAccessDenied):
			h.logger.Warn("PUT /salons/{id}/config - Access denied: salon_id=%d, user_id=%d",
				salonID, req.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, config.ErrInvalidInput):
			h.logger.Warn("PUT /salons/{id}/config - Invalid data: salon_id=%d, error=%v", salonID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /salons/{id}/config - Failed to update config: salon_id=%d, error=%v",
				salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /salons/{id}/config - Config updated successfully: salon_id=%d, config_id=%d",
		salonID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
