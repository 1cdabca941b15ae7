package get_salon_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/glowdesk/booking-engine/internal/domain"
	"github.com/glowdesk/booking-engine/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	salonID int64,
	userID int64,
	statusStr string,
	dateStr string,
	includeInactiveStr string,
) (*models.GetSalonBookingsRequest, error) {
	req := &models.GetSalonBookingsRequest{
		UserID:          userID,
		SalonID:         salonID,
		IncludeInactive: false, // По умолчанию только активные
	}

	// Парсим status если указан
	if statusStr != "" {
		req.Status = &statusStr
	}

	// Парсим date если указана
	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
		req.EndDate = &date
	}

	// Парсим includeInactive если указан
	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
