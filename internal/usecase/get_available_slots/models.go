package get_available_slots

import (
	"time"

	"github.com/glowdesk/booking-engine/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	SalonID    int64     // ID салона
	ServiceIDs []int64   // Выбранные услуги; длительность запроса = сумма их длительностей
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time `json:"-"`
	SalonID         int64     `json:"salonId"`
	ServiceIDs      []int64   `json:"serviceIds"`
	DurationMinutes int       `json:"durationMinutes"` // Суммарная длительность выбранных услуг
	Closed          bool      `json:"closed"`          // Салон закрыт в эту дату; отличимо от пустого списка
	Slots           []Slot    `json:"slots"`
}

// Slot модель временного слота
type Slot struct {
	StartTime      types.TimeString `json:"startTime"`
	AvailableSeats int              `json:"availableSeats"` // Свободные кресла на весь интервал
	TotalSeats     int              `json:"totalSeats"`
}
