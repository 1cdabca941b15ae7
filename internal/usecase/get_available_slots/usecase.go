package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glowdesk/booking-engine/internal/domain"
	cache "github.com/glowdesk/booking-engine/internal/infra/cache/slots"
	configRepo "github.com/glowdesk/booking-engine/internal/infra/storage/config"
	salonClient "github.com/glowdesk/booking-engine/internal/integrations/salonservice"
	"github.com/glowdesk/booking-engine/pkg/ptr"
)

// UseCase use case для получения доступных слотов для бронирования.
// Чтение без транзакций: небольшое отставание допустимо, потому что
// занятость перепроверяется при подтверждении оплаты.
type UseCase struct {
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	salonClient  SalonServiceClient
	slotCache    SlotCache
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// slotCache может быть nil - тогда кэширование отключено.
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	salonClient SalonServiceClient,
	slotCache SlotCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		salonClient:  salonClient,
		slotCache:    slotCache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: salon=%d, services=%v, date=%s",
		req.SalonID, req.ServiceIDs, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Пробуем короткоживущий кэш
	cacheKey := cache.Key(req.SalonID, req.Date.Format(domain.DateFormat), req.ServiceIDs)
	if resp := uc.fromCache(ctx, cacheKey); resp != nil {
		resp.Date = req.Date
		uc.logger.Info("GetAvailableSlots: cache hit for salon=%d, date=%s",
			req.SalonID, req.Date.Format(domain.DateFormat))
		return resp, nil
	}

	now := uc.timeProvider.Now()

	// 3. Получаем салон (расписание работы, количество кресел)
	salon, err := uc.salonClient.GetSalon(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, salonClient.ErrSalonNotFound) {
			uc.logger.Warn("GetAvailableSlots: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	// 4. Получаем выбранные услуги; длительность запроса = сумма длительностей
	totalDuration := 0
	for _, serviceID := range req.ServiceIDs {
		service, err := uc.salonClient.GetService(ctx, req.SalonID, serviceID)
		if err != nil {
			if errors.Is(err, salonClient.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%d not found", serviceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", serviceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		totalDuration += service.DurationMinutes
	}

	if totalDuration <= 0 {
		uc.logger.Warn("GetAvailableSlots: zero total duration for services=%v", req.ServiceIDs)
		return nil, fmt.Errorf("%w: total duration must be positive", ErrInvalidInput)
	}

	// 5. Получаем конфигурацию слотов с учетом иерархии.
	// Для нескольких услуг берём конфигурацию по первой из них.
	cfg, err := uc.configRepo.GetConfigWithHierarchy(ctx, req.SalonID, ptr.Ptr(req.ServiceIDs[0]))
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	if cfg == nil {
		cfg = domain.DefaultSlotsConfig()
		uc.logger.Info("GetAvailableSlots: using default config for salon=%d", req.SalonID)
	}

	// 6. Валидация даты с учетом конфигурации
	if err := validateDate(req.Date, now, cfg.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 7. Рабочие часы на дату; закрытый день отличим от пустого списка слотов
	workingHours := workingHoursForDay(salon, req.Date)
	if !workingHours.IsOpen {
		uc.logger.Info("GetAvailableSlots: salon %d is closed on %s",
			req.SalonID, req.Date.Format(domain.DateFormat))
		resp := &Response{
			Date:            req.Date,
			SalonID:         req.SalonID,
			ServiceIDs:      req.ServiceIDs,
			DurationMinutes: totalDuration,
			Closed:          true,
			Slots:           []Slot{},
		}
		uc.toCache(ctx, cacheKey, resp)
		return resp, nil
	}

	// 8. Генерируем кандидатов времени начала
	candidates, err := generateTimeSlots(
		workingHours,
		cfg.SlotGranularityMinutes,
		totalDuration,
		req.Date,
		now,
		cfg.MinBookingNoticeMinutes,
	)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}

	// 9. Получаем бронирования, занимающие кресла на эту дату
	bookings, err := uc.bookingRepo.GetOccupyingForDate(ctx, req.SalonID, req.Date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 10. Вычисляем свободные кресла, отбрасываем полностью занятые слоты
	available := calculateSeatAvailability(candidates, totalDuration, bookings, effectiveSeats(salon, cfg), now)
	slots := make([]Slot, 0, len(available))
	for _, s := range available {
		slots = append(slots, Slot{
			StartTime:      s.StartTime,
			AvailableSeats: s.AvailableSeats,
			TotalSeats:     s.TotalSeats,
		})
	}

	uc.logger.Info("GetAvailableSlots: %d available slots for salon=%d, date=%s, duration=%d",
		len(slots), req.SalonID, req.Date.Format(domain.DateFormat), totalDuration)

	resp := &Response{
		Date:            req.Date,
		SalonID:         req.SalonID,
		ServiceIDs:      req.ServiceIDs,
		DurationMinutes: totalDuration,
		Closed:          false,
		Slots:           slots,
	}
	uc.toCache(ctx, cacheKey, resp)
	return resp, nil
}

// fromCache возвращает закэшированный ответ или nil.
// Ошибки кэша не фатальны - слоты пересчитываются.
func (uc *UseCase) fromCache(ctx context.Context, key string) *Response {
	if uc.slotCache == nil {
		return nil
	}

	payload, err := uc.slotCache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			uc.logger.Warn("GetAvailableSlots: cache get failed: %v", err)
		}
		return nil
	}

	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		uc.logger.Warn("GetAvailableSlots: cache payload decode failed: %v", err)
		return nil
	}
	return &resp
}

func (uc *UseCase) toCache(ctx context.Context, key string, resp *Response) {
	if uc.slotCache == nil {
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := uc.slotCache.Set(ctx, key, payload); err != nil {
		uc.logger.Warn("GetAvailableSlots: cache set failed: %v", err)
	}
}
