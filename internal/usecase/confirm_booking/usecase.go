package confirm_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowdesk/booking-engine/internal/domain"
	bookingRepo "github.com/glowdesk/booking-engine/internal/infra/storage/booking"
	configRepo "github.com/glowdesk/booking-engine/internal/infra/storage/config"
	"github.com/glowdesk/booking-engine/internal/integrations/payment"
	salonClient "github.com/glowdesk/booking-engine/internal/integrations/salonservice"
	"github.com/glowdesk/booking-engine/pkg/ptr"
)

// UseCase use case подтверждения бронирования по оплаченному ордеру.
// Подпись проверяется до любых обращений к БД: при неверной подписи
// состояние не меняется вообще. Переход pending_payment -> confirmed
// атомарный, в сериализуемой транзакции с блокировкой строки.
type UseCase struct {
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	salonClient  SalonServiceClient
	verifier     PaymentVerifier
	slotCache    SlotCache
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// slotCache и metrics могут быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	salonClient SalonServiceClient,
	verifier PaymentVerifier,
	slotCache SlotCache,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		salonClient:  salonClient,
		verifier:     verifier,
		slotCache:    slotCache,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case подтверждения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmBooking: order=%s, payment=%s", req.OrderID, req.PaymentID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем подпись платежа. Неверная подпись - жесткий отказ
	// без каких-либо изменений в БД.
	proof := payment.Proof{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	}
	if !uc.verifier.VerifySignature(proof) {
		uc.logger.Warn("ConfirmBooking: signature verification failed for order=%s", req.OrderID)
		return nil, ErrPaymentVerification
	}

	now := uc.timeProvider.Now()

	// 3. Предварительное чтение бронирования без блокировки:
	// нужны salonID и дата, чтобы получить салон и конфигурацию
	// до открытия транзакции (внешний HTTP не должен держать блокировки)
	preread, err := uc.bookingRepo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ConfirmBooking: no booking for order=%s", req.OrderID)
			return nil, ErrOrderNotFound
		}
		uc.logger.Error("ConfirmBooking: failed to get booking by order=%s: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
	}

	seats, err := uc.resolveSeats(ctx, preread)
	if err != nil {
		return nil, err
	}

	var result *domain.Booking
	alreadyConfirmed := false

	// 4. Подтверждаем в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Идемпотентность: тот же paymentID повторно - успех без изменений
		existing, err := uc.bookingRepo.GetByPaymentID(txCtx, req.PaymentID)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Error("ConfirmBooking: failed to get booking by payment=%s: %v", req.PaymentID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}
		if existing != nil && existing.Status == domain.StatusConfirmed {
			uc.logger.Info("ConfirmBooking: payment=%s already confirmed booking id=%d", req.PaymentID, existing.ID)
			result = existing
			alreadyConfirmed = true
			return nil
		}

		// 4.2. Читаем бронирование с блокировкой FOR UPDATE
		booking, err := uc.bookingRepo.GetByOrderID(txCtx, req.OrderID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrOrderNotFound
			}
			uc.logger.Error("ConfirmBooking: failed to lock booking for order=%s: %v", req.OrderID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		switch booking.Status {
		case domain.StatusPendingPayment:
			// Продолжаем подтверждение
		case domain.StatusConfirmed:
			// Подтверждено другим платежом: тот же paymentID уже обработан выше
			uc.logger.Warn("ConfirmBooking: booking id=%d already confirmed with different payment", booking.ID)
			return ErrAlreadyPaid
		default:
			// Hold истек и был отменен чисткой, а платеж все же пришел.
			// Деньги списаны, бронирования нет - ручной разбор с возвратом.
			uc.logger.Error("ConfirmBooking: payment=%s received for %s booking id=%d, refund required",
				req.PaymentID, booking.Status, booking.ID)
			uc.incReconciliation("payment_for_cancelled_booking")
			return ErrBookingNotConfirmable
		}

		// 4.3. Hold мог истечь, пока платеж шел. Пересчитываем занятость
		// без учета самого бронирования: если кресло еще свободно,
		// подтверждаем несмотря на просрочку.
		if booking.HoldExpiresAt != nil && !now.Before(*booking.HoldExpiresAt) {
			occupied, err := uc.countOthersOverlapping(txCtx, booking, now)
			if err != nil {
				return err
			}
			if occupied >= seats {
				// Слот перехвачен: отменяем бронирование, платеж в ручной разбор
				uc.logger.Error("ConfirmBooking: seat taken while payment=%s was in flight, booking id=%d cancelled, refund required",
					req.PaymentID, booking.ID)
				if err := uc.bookingRepo.Cancel(txCtx, booking.ID, "hold expired, slot taken before payment arrived"); err != nil {
					uc.logger.Error("ConfirmBooking: failed to cancel booking id=%d: %v", booking.ID, err)
					return fmt.Errorf("%w: failed to cancel booking: %w", ErrInternal, err)
				}
				uc.incReconciliation("slot_conflict")
				return ErrSlotConflict
			}
			uc.logger.Info("ConfirmBooking: hold expired but seat still free, confirming booking id=%d", booking.ID)
		}

		// 4.4. Атомарный переход pending_payment -> confirmed
		if err := uc.bookingRepo.Confirm(txCtx, booking.ID, req.PaymentID, req.Signature); err != nil {
			if errors.Is(err, bookingRepo.ErrNotPendingPayment) {
				uc.logger.Warn("ConfirmBooking: booking id=%d left pending_payment concurrently", booking.ID)
				return ErrBookingNotConfirmable
			}
			uc.logger.Error("ConfirmBooking: failed to confirm booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to confirm booking: %w", ErrInternal, err)
		}

		booking.Status = domain.StatusConfirmed
		booking.PaymentID = ptr.Ptr(req.PaymentID)
		booking.PaymentSignature = ptr.Ptr(req.Signature)
		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	if !alreadyConfirmed {
		uc.logger.Info("ConfirmBooking: booking id=%d confirmed by payment=%s", result.ID, req.PaymentID)
		// Инвалидируем кэш слотов: занятость могла измениться при просроченном hold
		uc.invalidateSlots(ctx, result.SalonID, result.BookingDate.Format(domain.DateFormat))
	}

	return &Response{
		BookingID:        result.ID,
		SalonID:          result.SalonID,
		UserID:           result.UserID,
		BookingDate:      result.BookingDate,
		StartTime:        result.StartTime,
		DurationMinutes:  result.DurationMinutes,
		Status:           string(result.Status),
		PaymentID:        req.PaymentID,
		AlreadyConfirmed: alreadyConfirmed,
	}, nil
}

// resolveSeats возвращает количество кресел салона с учетом конфигурации
func (uc *UseCase) resolveSeats(ctx context.Context, booking *domain.Booking) (int, error) {
	salon, err := uc.salonClient.GetSalon(ctx, booking.SalonID)
	if err != nil {
		if errors.Is(err, salonClient.ErrSalonNotFound) {
			// Салон удален из справочника, кресла пересчитать нечем;
			// подтверждаем без проверки перехвата
			uc.logger.Warn("ConfirmBooking: salon id=%d not found, skipping capacity recheck", booking.SalonID)
			return int(^uint(0) >> 1), nil
		}
		uc.logger.Error("ConfirmBooking: failed to get salon id=%d: %v", booking.SalonID, err)
		return 0, fmt.Errorf("%w: failed to get salon: %w", ErrInternal, err)
	}

	var serviceID *int64
	if len(booking.Services) > 0 {
		serviceID = ptr.Ptr(booking.Services[0].ServiceID)
	}

	cfg, err := uc.configRepo.GetConfigWithHierarchy(ctx, booking.SalonID, serviceID)
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		uc.logger.Error("ConfirmBooking: failed to get config: %v", err)
		return 0, fmt.Errorf("%w: failed to get config: %w", ErrInternal, err)
	}
	if cfg == nil {
		cfg = domain.DefaultSlotsConfig()
	}

	if cfg.MaxConcurrentBookings > 0 {
		return cfg.MaxConcurrentBookings, nil
	}
	return salon.CapacitySeats, nil
}

// countOthersOverlapping подсчитывает чужие бронирования, занимающие кресло
// на интервале данного бронирования
func (uc *UseCase) countOthersOverlapping(ctx context.Context, booking *domain.Booking, now time.Time) (int, error) {
	bookings, err := uc.bookingRepo.GetOccupyingForDate(ctx, booking.SalonID, booking.BookingDate, now)
	if err != nil {
		uc.logger.Error("ConfirmBooking: failed to get bookings: %v", err)
		return 0, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	slotEnd, err := booking.EndTime()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to calculate booking end: %w", ErrInternal, err)
	}

	count := 0
	for _, other := range bookings {
		if other.ID == booking.ID {
			continue
		}
		if !other.OccupiesSeatAt(now) {
			continue
		}

		otherEnd, err := other.StartTime.AddMinutes(other.DurationMinutes)
		if err != nil {
			continue
		}

		// Полуоткрытые интервалы, строгие неравенства
		if other.StartTime.IsBefore(slotEnd) && otherEnd.IsAfter(booking.StartTime) {
			count++
		}
	}

	return count, nil
}

func (uc *UseCase) incReconciliation(reason string) {
	if uc.metrics != nil {
		uc.metrics.IncManualReconciliation(reason)
	}
}

func (uc *UseCase) invalidateSlots(ctx context.Context, salonID int64, date string) {
	if uc.slotCache == nil {
		return
	}
	if err := uc.slotCache.InvalidateDate(ctx, salonID, date); err != nil {
		uc.logger.Warn("ConfirmBooking: slot cache invalidation failed: %v", err)
	}
}
