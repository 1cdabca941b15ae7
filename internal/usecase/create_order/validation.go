package create_order

import (
	"fmt"
	"time"

	"github.com/glowdesk/booking-engine/internal/domain"
	"github.com/glowdesk/booking-engine/internal/integrations/salonservice"
	"github.com/glowdesk/booking-engine/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	for _, serviceID := range req.ServiceIDs {
		if serviceID <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(bookingDate time.Time, now time.Time, advanceBookingDays int) error {
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}

	// advanceBookingDays = 0 означает отсутствие ограничения
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, advanceBookingDays)

	bookingDateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())

	if bookingDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateSlotTime проверяет, что время начала лежит на сетке слотов
// и что услуги целиком помещаются в рабочие часы
func validateSlotTime(
	startTime types.TimeString,
	durationMinutes int,
	workingHours salonservice.DaySchedule,
	granularity int,
) error {
	if workingHours.OpenTime == nil || workingHours.CloseTime == nil {
		return ErrSalonClosed
	}

	openTime, err := types.NewTimeStringFromString(*workingHours.OpenTime)
	if err != nil {
		return fmt.Errorf("%w: invalid open time: %v", ErrInternal, err)
	}

	closeTime, err := types.NewTimeStringFromString(*workingHours.CloseTime)
	if err != nil {
		return fmt.Errorf("%w: invalid close time: %v", ErrInternal, err)
	}

	if startTime.IsBefore(openTime) {
		return fmt.Errorf("%w: slot starts before opening", ErrInvalidTimeSlot)
	}

	// Начало должно отстоять от открытия на целое число шагов сетки
	startMinutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	openMinutes, err := openTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid open time: %v", ErrInternal, err)
	}
	if (startMinutes-openMinutes)%granularity != 0 {
		return fmt.Errorf("%w: slot is not aligned to %d-minute grid", ErrInvalidTimeSlot, granularity)
	}

	// Конец не должен выходить за закрытие
	slotEnd, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: failed to calculate slot end: %v", ErrInternal, err)
	}
	if slotEnd.IsAfter(closeTime) {
		return fmt.Errorf("%w: services do not fit before closing", ErrInvalidTimeSlot)
	}

	return nil
}

// validateBookingTime проверяет, что бронирование не нарушает minBookingNoticeMinutes
func validateBookingTime(
	bookingDate time.Time,
	startTime types.TimeString,
	now time.Time,
	minBookingNoticeMinutes int,
) error {
	// Для будущих дат проверка не нужна
	if !isSameDay(bookingDate, now) {
		return nil
	}

	currentTime := types.NewTimeString(now)
	minAllowedTime, err := currentTime.AddMinutes(minBookingNoticeMinutes)
	if err != nil {
		return fmt.Errorf("%w: failed to calculate min allowed time: %v", ErrInternal, err)
	}

	if startTime.IsBefore(minAllowedTime) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minBookingNoticeMinutes)
	}

	return nil
}

// countOverlappingBookings подсчитывает бронирования, занимающие кресло
// на интервале [startTime, startTime+duration). Интервалы полуоткрытые.
func countOverlappingBookings(
	startTime types.TimeString,
	durationMinutes int,
	bookings []*domain.Booking,
	now time.Time,
) (int, error) {
	slotEnd, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return 0, err
	}

	count := 0

	for _, booking := range bookings {
		// Просроченные holds и терминальные статусы кресло не занимают
		if !booking.OccupiesSeatAt(now) {
			continue
		}

		bookingStart := booking.StartTime
		bookingEnd, err := booking.StartTime.AddMinutes(booking.DurationMinutes)
		if err != nil {
			continue
		}

		if bookingStart.IsBefore(slotEnd) && bookingEnd.IsAfter(startTime) {
			count++
		}
	}

	return count, nil
}

// effectiveSeats возвращает количество кресел салона с учетом
// переопределения в конфигурации (maxConcurrentBookings > 0)
func effectiveSeats(salon *salonservice.Salon, cfg *domain.SalonSlotsConfig) int {
	if cfg.MaxConcurrentBookings > 0 {
		return cfg.MaxConcurrentBookings
	}
	return salon.CapacitySeats
}

// workingHoursForDay возвращает расписание работы салона на день недели даты
func workingHoursForDay(salon *salonservice.Salon, date time.Time) salonservice.DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return salon.WorkingHours.Monday
	case time.Tuesday:
		return salon.WorkingHours.Tuesday
	case time.Wednesday:
		return salon.WorkingHours.Wednesday
	case time.Thursday:
		return salon.WorkingHours.Thursday
	case time.Friday:
		return salon.WorkingHours.Friday
	case time.Saturday:
		return salon.WorkingHours.Saturday
	case time.Sunday:
		return salon.WorkingHours.Sunday
	default:
		return salonservice.DaySchedule{IsOpen: false}
	}
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
