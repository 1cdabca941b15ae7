package get_salon_config

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/glowdesk/booking-engine/internal/api/handlers"
	"github.com/glowdesk/booking-engine/internal/service/config/models"
)

const (
	msgInvalidSalonID   = "invalid salon id"
	msgInvalidServiceID = "invalid service id"
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

// Handle GET /api/v1/salons/{salonId}/config
// Query params: serviceId (опционально)
// Публичный endpoint - без авторизации. Возвращает действующую конфигурацию
// с иерархическим поиском; если ничего не настроено - дефолты.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем salonId из URL
	vars := mux.Vars(r)
	salonIDStr := vars["salonId"]

	salonID, err := strconv.ParseInt(salonIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/config - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	// Получаем опциональный serviceId из query параметров
	var serviceIDPtr *int64
	if serviceIDStr := r.URL.Query().Get("serviceId"); serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /salons/{id}/config - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		serviceIDPtr = &serviceID
	}

	// Получаем действующую конфигурацию
	result, err := h.service.GetEffective(r.Context(), &models.GetConfigRequest{
		SalonID:   salonID,
		ServiceID: serviceIDPtr,
	})
	if err != nil {
		h.logger.Error("GET /salons/{id}/config - Failed to get config: salon_id=%d, error=%v",
			salonID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /salons/{id}/config - Config retrieved successfully: salon_id=%d, config_id=%d",
		salonID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
