package create_order

import (
	"context"
	"errors"
	"fmt"

	"github.com/glowdesk/booking-engine/internal/domain"
	configRepo "github.com/glowdesk/booking-engine/internal/infra/storage/config"
	"github.com/glowdesk/booking-engine/internal/integrations/payment"
	salonClient "github.com/glowdesk/booking-engine/internal/integrations/salonservice"
	"github.com/glowdesk/booking-engine/pkg/ptr"
)

// UseCase use case выпуска платежного ордера под бронирование.
// Ордер у провайдера создается ДО транзакции с БД: внешний HTTP-вызов
// не должен держать блокировки строк. Само бронирование создается
// в статусе pending_payment внутри сериализуемой транзакции после
// повторной проверки вместимости.
type UseCase struct {
	bookingRepo   BookingRepository
	configRepo    ConfigRepository
	salonClient   SalonServiceClient
	paymentClient PaymentClient
	slotCache     SlotCache
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case.
// slotCache может быть nil - тогда инвалидация кэша отключена.
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	salonClient SalonServiceClient,
	paymentClient PaymentClient,
	slotCache SlotCache,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		configRepo:    configRepo,
		salonClient:   salonClient,
		paymentClient: paymentClient,
		slotCache:     slotCache,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case выпуска платежного ордера
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateOrder: user=%d, salon=%d, services=%v, date=%s, time=%s",
		req.UserID, req.SalonID, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateOrder: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем салон
	salon, err := uc.salonClient.GetSalon(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, salonClient.ErrSalonNotFound) {
			uc.logger.Warn("CreateOrder: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("CreateOrder: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %w", ErrInternal, err)
	}

	// 4. Снапшотим выбранные услуги: цена и длительность фиксируются
	// на момент заказа
	snapshots := make([]domain.ServiceSnapshot, 0, len(req.ServiceIDs))
	var totalPriceMinor int64
	totalDuration := 0
	for _, serviceID := range req.ServiceIDs {
		service, err := uc.salonClient.GetService(ctx, req.SalonID, serviceID)
		if err != nil {
			if errors.Is(err, salonClient.ErrServiceNotFound) {
				uc.logger.Warn("CreateOrder: service id=%d not found", serviceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("CreateOrder: failed to get service id=%d: %v", serviceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
		}

		snapshots = append(snapshots, domain.ServiceSnapshot{
			ServiceID:       service.ID,
			Name:            service.Name,
			PriceMinor:      service.PriceMinor,
			DurationMinutes: service.DurationMinutes,
		})
		totalPriceMinor += service.PriceMinor
		totalDuration += service.DurationMinutes
	}

	if totalPriceMinor <= 0 {
		uc.logger.Warn("CreateOrder: non-positive total price %d for services=%v", totalPriceMinor, req.ServiceIDs)
		return nil, ErrInvalidAmount
	}
	if totalDuration <= 0 {
		uc.logger.Warn("CreateOrder: zero total duration for services=%v", req.ServiceIDs)
		return nil, fmt.Errorf("%w: total duration must be positive", ErrInvalidInput)
	}

	// 5. Получаем конфигурацию слотов с учетом иерархии.
	// Для нескольких услуг берём конфигурацию по первой из них.
	cfg, err := uc.configRepo.GetConfigWithHierarchy(ctx, req.SalonID, ptr.Ptr(req.ServiceIDs[0]))
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		uc.logger.Error("CreateOrder: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %w", ErrInternal, err)
	}
	if cfg == nil {
		cfg = domain.DefaultSlotsConfig()
		uc.logger.Info("CreateOrder: using default config for salon=%d", req.SalonID)
	}

	// 6. Проверки, не требующие блокировок: дата, рабочие часы,
	// сетка слотов, минимальный интервал до начала
	if err := validateDate(req.Date, now, cfg.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateOrder: date validation failed: %v", err)
		return nil, err
	}

	workingHours := workingHoursForDay(salon, req.Date)
	if !workingHours.IsOpen {
		uc.logger.Warn("CreateOrder: salon %d is closed on %s", req.SalonID, req.Date.Format(domain.DateFormat))
		return nil, ErrSalonClosed
	}

	if err := validateSlotTime(req.StartTime, totalDuration, workingHours, cfg.SlotGranularityMinutes); err != nil {
		uc.logger.Warn("CreateOrder: slot time validation failed: %v", err)
		return nil, err
	}

	if err := validateBookingTime(req.Date, req.StartTime, now, cfg.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateOrder: booking time validation failed: %v", err)
		return nil, err
	}

	// 7. Быстрая проверка вместимости без блокировок, чтобы не создавать
	// ордер у провайдера под заведомо занятый слот. Окончательная проверка
	// происходит в транзакции ниже.
	seats := effectiveSeats(salon, cfg)
	bookings, err := uc.bookingRepo.GetOccupyingForDate(ctx, req.SalonID, req.Date, now)
	if err != nil {
		uc.logger.Error("CreateOrder: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}
	occupied, err := countOverlappingBookings(req.StartTime, totalDuration, bookings, now)
	if err != nil {
		uc.logger.Error("CreateOrder: failed to count overlapping bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to count overlapping bookings: %w", ErrInternal, err)
	}
	if occupied >= seats {
		uc.logger.Warn("CreateOrder: slot not available, %d/%d seats taken", occupied, seats)
		return nil, ErrSlotNotAvailable
	}

	// 8. Создаем ордер у платежного провайдера.
	// Таймаут и ошибки провайдера транзиентны: никакое бронирование
	// к этому моменту еще не создано.
	order, err := uc.paymentClient.CreateOrder(ctx, totalPriceMinor, salon.Currency)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidAmount) {
			return nil, ErrInvalidAmount
		}
		uc.logger.Error("CreateOrder: payment provider failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	uc.logger.Info("CreateOrder: provider order id=%s created, amount=%d %s",
		order.ID, order.AmountMinor, order.Currency)

	holdExpiresAt := now.Add(cfg.HoldTimeout())

	var result *domain.Booking

	// 9. Создаем pending_payment бронирование в сериализуемой транзакции
	// с повторной проверкой вместимости под FOR UPDATE
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		bookings, err := uc.bookingRepo.GetOccupyingForDate(txCtx, req.SalonID, req.Date, now)
		if err != nil {
			uc.logger.Error("CreateOrder: failed to get bookings in tx: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		occupied, err := countOverlappingBookings(req.StartTime, totalDuration, bookings, now)
		if err != nil {
			return fmt.Errorf("%w: failed to count overlapping bookings: %w", ErrInternal, err)
		}

		if occupied >= seats {
			uc.logger.Warn("CreateOrder: slot not available in tx, %d/%d seats taken", occupied, seats)
			return ErrSlotNotAvailable
		}

		booking := &domain.Booking{
			UserID:          req.UserID,
			SalonID:         req.SalonID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: totalDuration,
			Status:          domain.StatusPendingPayment,
			Services:        snapshots,
			TotalPriceMinor: totalPriceMinor,
			Currency:        salon.Currency,
			OrderID:         ptr.Ptr(order.ID),
			HoldExpiresAt:   ptr.Ptr(holdExpiresAt),
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateOrder: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			// Ордер остался без бронирования; провайдер закроет его по
			// своему таймауту, оплатить его нечем
			uc.logger.Warn("CreateOrder: abandoning provider order id=%s after capacity conflict", order.ID)
		}
		return nil, err
	}

	uc.logger.Info("CreateOrder: booking id=%d created in pending_payment, order=%s, hold until %s",
		result.ID, order.ID, holdExpiresAt.Format("15:04:05"))

	// 10. Инвалидируем кэш слотов на эту дату (best effort)
	uc.invalidateSlots(ctx, req.SalonID, req.Date.Format(domain.DateFormat))

	return &Response{
		BookingID:       result.ID,
		OrderID:         order.ID,
		AmountMinor:     totalPriceMinor,
		Currency:        salon.Currency,
		Status:          string(result.Status),
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Services:        result.Services,
		HoldExpiresAt:   holdExpiresAt,
	}, nil
}

func (uc *UseCase) invalidateSlots(ctx context.Context, salonID int64, date string) {
	if uc.slotCache == nil {
		return
	}
	if err := uc.slotCache.InvalidateDate(ctx, salonID, date); err != nil {
		uc.logger.Warn("CreateOrder: slot cache invalidation failed: %v", err)
	}
}
