package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/glowdesk/booking-engine/internal/domain"
	configRepo "github.com/glowdesk/booking-engine/internal/infra/storage/config"
	salonClient "github.com/glowdesk/booking-engine/internal/integrations/salonservice"
	"github.com/glowdesk/booking-engine/internal/service/config/models"
)

// Service сервис для работы с конфигурацией слотов
type Service struct {
	configRepo  ConfigRepository
	salonClient SalonServiceClient
	logger      Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	salonClient SalonServiceClient,
	logger Logger,
) *Service {
	return &Service{
		configRepo:  configRepo,
		salonClient: salonClient,
		logger:      logger,
	}
}

// Upsert создает или перезаписывает конфигурацию слотов для пары
// (салон, услуга). Доступно только менеджерам салона.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Upsert: config for salon=%d, service=%v by user=%d", req.SalonID, req.ServiceID, req.UserID)

	// 1. Валидируем входные данные
	if err := s.validateConfigData(req); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем салон для проверки прав доступа
	salon, err := s.salonClient.GetSalon(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, salonClient.ErrSalonNotFound) {
			s.logger.Warn("Upsert: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		s.logger.Error("Upsert: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	// 3. Проверяем права доступа (только менеджер салона)
	if !s.isManager(salon.ManagerIDs, req.UserID) {
		s.logger.Warn("Upsert: user=%d is not a manager of salon=%d", req.UserID, req.SalonID)
		return nil, ErrAccessDenied
	}

	// 4. Если указан serviceID, проверяем существование услуги
	if req.ServiceID != nil {
		if _, err := s.salonClient.GetService(ctx, req.SalonID, *req.ServiceID); err != nil {
			if errors.Is(err, salonClient.ErrServiceNotFound) {
				s.logger.Warn("Upsert: service id=%d not found in salon=%d", *req.ServiceID, req.SalonID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Upsert: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
	}

	// 5. Создаем или перезаписываем конфигурацию
	saved, err := s.configRepo.Upsert(ctx, req.ToDomainConfig())
	if err != nil {
		s.logger.Error("Upsert: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: config id=%d saved for salon=%d", saved.ID, req.SalonID)
	return models.FromDomainConfig(saved), nil
}

// GetEffective возвращает действующую конфигурацию для пары (салон, услуга)
// с иерархическим поиском: услуга -> салон -> дефолты
func (s *Service) GetEffective(ctx context.Context, req *models.GetConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("GetEffective: config for salon=%d, service=%v", req.SalonID, req.ServiceID)

	if req.SalonID <= 0 {
		return nil, fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	cfg, err := s.configRepo.GetConfigWithHierarchy(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			// Конфигурация не настроена: действуют дефолты
			defaults := domain.DefaultSlotsConfig()
			defaults.SalonID = req.SalonID
			s.logger.Info("GetEffective: no stored config for salon=%d, using defaults", req.SalonID)
			return models.FromDomainConfig(defaults), nil
		}
		s.logger.Error("GetEffective: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: GetEffective - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg), nil
}

// GetAllBySalon возвращает все конфигурации салона
// Доступно только менеджерам салона
func (s *Service) GetAllBySalon(ctx context.Context, salonID int64, userID int64) (*models.ConfigListResponse, error) {
	s.logger.Info("GetAllBySalon: configs for salon=%d by user=%d", salonID, userID)

	salon, err := s.salonClient.GetSalon(ctx, salonID)
	if err != nil {
		if errors.Is(err, salonClient.ErrSalonNotFound) {
			s.logger.Warn("GetAllBySalon: salon id=%d not found", salonID)
			return nil, ErrSalonNotFound
		}
		s.logger.Error("GetAllBySalon: failed to get salon id=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	if !s.isManager(salon.ManagerIDs, userID) {
		s.logger.Warn("GetAllBySalon: user=%d is not a manager of salon=%d", userID, salonID)
		return nil, ErrAccessDenied
	}

	configs, err := s.configRepo.GetAllBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("GetAllBySalon: repository error for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: GetAllBySalon - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllBySalon: fetched %d configs for salon=%d", len(configs), salonID)
	return models.FromDomainConfigList(configs), nil
}

// Вспомогательные методы

// validateConfigData проверяет значения конфигурации на допустимые границы
func (s *Service) validateConfigData(req *models.UpsertConfigRequest) error {
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.SlotGranularityMinutes < domain.MinSlotGranularityMinutes ||
		req.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	// 0 означает "использовать capacitySeats салона"
	if req.MaxConcurrentBookings < domain.MinConcurrentBookings ||
		req.MaxConcurrentBookings > domain.MaxConcurrentBookingsLimit {
		return fmt.Errorf("%w: maxConcurrentBookings must be between %d and %d",
			ErrInvalidInput, domain.MinConcurrentBookings, domain.MaxConcurrentBookingsLimit)
	}

	if req.AdvanceBookingDays < domain.MinAdvanceBookingDays ||
		req.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if req.MinBookingNoticeMinutes < domain.MinBookingNoticeLimit ||
		req.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeLimit, domain.MaxBookingNoticeMinutes)
	}

	if req.HoldTimeoutMinutes < domain.MinHoldTimeoutMinutes ||
		req.HoldTimeoutMinutes > domain.MaxHoldTimeoutMinutes {
		return fmt.Errorf("%w: holdTimeoutMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinHoldTimeoutMinutes, domain.MaxHoldTimeoutMinutes)
	}

	return nil
}

// isManager проверяет, что userID в списке менеджеров салона
func (s *Service) isManager(managerIDs []int64, userID int64) bool {
	for _, id := range managerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
