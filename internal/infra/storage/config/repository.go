package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/glowdesk/booking-engine/internal/domain"
	"github.com/glowdesk/booking-engine/pkg/dbmetrics"
	"github.com/glowdesk/booking-engine/pkg/psqlbuilder"
)

var configColumns = []string{
	"id",
	"salon_id",
	"service_id",
	"slot_granularity_minutes",
	"max_concurrent_bookings",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"hold_timeout_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий конфигурации слотов салонов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySalonAndService получает конфигурацию для салона и услуги.
// serviceID == nil означает конфигурацию уровня салона.
func (r *Repository) GetBySalonAndService(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(configColumns...).
		From("salon_slots_config").
		Where(squirrel.Eq{"salon_id": salonID})

	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonAndService - build select query: %v", ErrBuildQuery, err)
	}

	cfg, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonAndService - scan config: %w", ErrScanRow, err)
	}

	return cfg, nil
}

// GetConfigWithHierarchy получает конфигурацию с учетом иерархии приоритетов:
// 1. Конфигурация для конкретной услуги (salonID, serviceID)
// 2. Конфигурация уровня салона (salonID, NULL)
// Если конфигурация не найдена ни на одном уровне, возвращает ErrConfigNotFound.
func (r *Repository) GetConfigWithHierarchy(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonSlotsConfig, error) {
	if serviceID != nil {
		cfg, err := r.GetBySalonAndService(ctx, salonID, serviceID)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: GetConfigWithHierarchy - service level: %w", ErrExecQuery, err)
		}
	}

	cfg, err := r.GetBySalonAndService(ctx, salonID, nil)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("%w: GetConfigWithHierarchy - salon level: %w", ErrExecQuery, err)
	}

	return nil, ErrConfigNotFound
}

// GetAllBySalon получает все конфигурации салона (общую и по услугам)
func (r *Repository) GetAllBySalon(ctx context.Context, salonID int64) ([]*domain.SalonSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(configColumns...).
		From("salon_slots_config").
		Where(squirrel.Eq{"salon_id": salonID}).
		OrderBy("service_id ASC NULLS FIRST"). // Общая конфигурация первой
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllBySalon - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllBySalon - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	configs := make([]*domain.SalonSlotsConfig, 0)
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllBySalon - scan config: %w", ErrScanRow, err)
		}
		configs = append(configs, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllBySalon - rows error: %w", ErrScanRow, err)
	}

	return configs, nil
}

// Upsert создает или обновляет конфигурацию для пары (salon_id, service_id)
func (r *Repository) Upsert(ctx context.Context, cfg *domain.SalonSlotsConfig) (*domain.SalonSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("salon_slots_config").
		Columns(
			"salon_id",
			"service_id",
			"slot_granularity_minutes",
			"max_concurrent_bookings",
			"advance_booking_days",
			"min_booking_notice_minutes",
			"hold_timeout_minutes",
		).
		Values(
			cfg.SalonID,
			cfg.ServiceID,
			cfg.SlotGranularityMinutes,
			cfg.MaxConcurrentBookings,
			cfg.AdvanceBookingDays,
			cfg.MinBookingNoticeMinutes,
			cfg.HoldTimeoutMinutes,
		).
		Suffix(`ON CONFLICT (salon_id, COALESCE(service_id, 0)) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			max_concurrent_bookings = EXCLUDED.max_concurrent_bookings,
			advance_booking_days = EXCLUDED.advance_booking_days,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			hold_timeout_minutes = EXCLUDED.hold_timeout_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute query: %w", ErrExecQuery, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConfig(row rowScanner) (*domain.SalonSlotsConfig, error) {
	var cfg domain.SalonSlotsConfig
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&cfg.ID,
		&cfg.SalonID,
		&cfg.ServiceID,
		&cfg.SlotGranularityMinutes,
		&cfg.MaxConcurrentBookings,
		&cfg.AdvanceBookingDays,
		&cfg.MinBookingNoticeMinutes,
		&cfg.HoldTimeoutMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}
