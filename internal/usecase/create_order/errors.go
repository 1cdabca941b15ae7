package create_order

import "errors"

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = errors.New("create_order: salon not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_order: service not found")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_order: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_order: date is too far in the future")

	// ErrSalonClosed возвращается, когда салон закрыт в указанную дату
	ErrSalonClosed = errors.New("create_order: salon is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время начала не лежит на сетке слотов
	// или услуги не помещаются до закрытия
	ErrInvalidTimeSlot = errors.New("create_order: invalid time slot")

	// ErrTooLateToBook возвращается, когда слот нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_order: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда все кресла на слот заняты
	ErrSlotNotAvailable = errors.New("create_order: slot is not available")

	// ErrInvalidAmount возвращается при нулевой или отрицательной итоговой сумме
	ErrInvalidAmount = errors.New("create_order: invalid order amount")

	// ErrPaymentProvider возвращается при транзиентной ошибке платежного провайдера
	ErrPaymentProvider = errors.New("create_order: payment provider unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_order: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_order: internal error")
)
