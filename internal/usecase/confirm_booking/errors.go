package confirm_booking

import "errors"

var (
	// ErrPaymentVerification возвращается при неверной подписи платежа.
	// Состояние бронирования при этом не меняется.
	ErrPaymentVerification = errors.New("confirm_booking: payment signature verification failed")

	// ErrOrderNotFound возвращается, когда ордер не привязан ни к одному бронированию
	ErrOrderNotFound = errors.New("confirm_booking: order not found")

	// ErrAlreadyPaid возвращается, когда бронирование уже подтверждено
	// другим платежом
	ErrAlreadyPaid = errors.New("confirm_booking: booking already confirmed with a different payment")

	// ErrSlotConflict возвращается, когда платеж пришел после истечения
	// удержания и свободных кресел на слот не осталось. Платеж требует
	// возврата через ручной разбор.
	ErrSlotConflict = errors.New("confirm_booking: slot is no longer available")

	// ErrBookingNotConfirmable возвращается, когда бронирование в терминальном
	// статусе и подтверждено быть не может
	ErrBookingNotConfirmable = errors.New("confirm_booking: booking cannot be confirmed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_booking: internal error")
)
