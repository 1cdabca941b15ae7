package get_available_slots

import (
	"time"

	"github.com/glowdesk/booking-engine/internal/domain"
	"github.com/glowdesk/booking-engine/internal/integrations/salonservice"
	"github.com/glowdesk/booking-engine/pkg/types"
)

// generateTimeSlots генерирует кандидатов времени начала на день.
// Кандидаты идут с шагом granularity от открытия салона; кандидат, чей конец
// (start + durationMinutes) выходит за время закрытия, не генерируется -
// частично помещающихся слотов не бывает.
// Для сегодняшней даты кандидаты дополнительно фильтруются по текущему
// времени и минимальному интервалу до начала (minBookingNoticeMinutes).
func generateTimeSlots(
	workingHours salonservice.DaySchedule,
	granularity int,
	durationMinutes int,
	requestDate time.Time,
	now time.Time,
	minBookingNoticeMinutes int,
) ([]types.TimeString, error) {
	// Дата в прошлом - слотов нет
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}, nil
	}

	if !workingHours.IsOpen || workingHours.OpenTime == nil || workingHours.CloseTime == nil {
		return []types.TimeString{}, nil
	}

	openTime, err := types.NewTimeStringFromString(*workingHours.OpenTime)
	if err != nil {
		return nil, err
	}

	closeTime, err := types.NewTimeStringFromString(*workingHours.CloseTime)
	if err != nil {
		return nil, err
	}

	// Шаг 1: Генерируем все кандидаты от открытия до закрытия с фиксированным шагом
	allSlots := make([]types.TimeString, 0)
	currentSlot := openTime

	for currentSlot.IsBefore(closeTime) {
		slotEnd, err := currentSlot.AddMinutes(durationMinutes)
		if err != nil {
			return nil, err
		}
		// Конец не должен выходить за закрытие; все последующие кандидаты
		// заканчиваются еще позже, поэтому останавливаемся
		if slotEnd.IsAfter(closeTime) {
			break
		}

		allSlots = append(allSlots, currentSlot)
		currentSlot, err = currentSlot.AddMinutes(granularity)
		if err != nil {
			return nil, err
		}
	}

	// Шаг 2: Если дата не сегодня - возвращаем все кандидаты
	if !isSameDay(requestDate, now) {
		return allSlots, nil
	}

	// Шаг 3: Для сегодняшней даты отбрасываем прошедшие слоты
	// и слоты, нарушающие минимальный интервал до начала
	currentTime := types.NewTimeString(now)
	minAllowedTime, err := currentTime.AddMinutes(minBookingNoticeMinutes)
	if err != nil {
		return nil, err
	}

	availableSlots := make([]types.TimeString, 0)
	for _, slot := range allSlots {
		if !slot.IsBefore(minAllowedTime) {
			availableSlots = append(availableSlots, slot)
		}
	}

	return availableSlots, nil
}

// calculateSeatAvailability вычисляет свободные кресла для каждого кандидата
// и отбрасывает полностью занятые слоты
func calculateSeatAvailability(
	candidates []types.TimeString,
	durationMinutes int,
	bookings []*domain.Booking,
	totalSeats int,
	now time.Time,
) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(candidates))

	for _, slotStart := range candidates {
		occupied := countOverlappingBookings(slotStart, durationMinutes, bookings, now)

		slot := domain.AvailableSlot{
			StartTime:       slotStart,
			DurationMinutes: durationMinutes,
			AvailableSeats:  totalSeats - occupied,
			TotalSeats:      totalSeats,
		}
		if slot.IsFull() {
			continue
		}

		result = append(result, slot)
	}

	return result
}

// countOverlappingBookings подсчитывает бронирования, занимающие кресло
// на интервале [slotStart, slotStart+duration).
// Интервалы полуоткрытые: бронирование, заканчивающееся ровно в начале слота
// (или начинающееся ровно в его конце), пересечением не считается.
func countOverlappingBookings(slotStart types.TimeString, durationMinutes int, bookings []*domain.Booking, now time.Time) int {
	slotEnd, err := slotStart.AddMinutes(durationMinutes)
	if err != nil {
		return 0
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

		// Строгие неравенства: граничные случаи не считаются пересечением
		if bookingStart.IsBefore(slotEnd) && bookingEnd.IsAfter(slotStart) {
			count++
		}
	}

	return count
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
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
