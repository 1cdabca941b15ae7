package salonservice

// Salon модель салона из SalonService
type Salon struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	CapacitySeats int          `json:"capacitySeats"` // Количество кресел (одновременных обслуживаний)
	Currency      string       `json:"currency"`      // ISO 4217, например "INR"
	WorkingHours  WeekSchedule `json:"workingHours"`
	ManagerIDs    []int64      `json:"managerIds"` // Пользователи с правами управления салоном
}

// WeekSchedule расписание работы салона по дням недели
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule расписание работы на один день недели
type DaySchedule struct {
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`  // "HH:MM", nil если закрыт
	CloseTime *string `json:"closeTime,omitempty"` // "HH:MM", nil если закрыт
}

// Service модель услуги салона
type Service struct {
	ID              int64  `json:"id"`
	SalonID         int64  `json:"salonId"`
	Name            string `json:"name"`
	PriceMinor      int64  `json:"priceMinor"` // Цена в минорных единицах валюты
	DurationMinutes int    `json:"durationMinutes"`
}

// ErrorResponse модель ошибки от SalonService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
