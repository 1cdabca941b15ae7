package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/booking-engine/internal/domain"
	configRepo "github.com/glowdesk/booking-engine/internal/infra/storage/config"
	"github.com/glowdesk/booking-engine/internal/integrations/salonservice"
	"github.com/glowdesk/booking-engine/internal/service/config/models"
	"github.com/glowdesk/booking-engine/pkg/ptr"
)

type fakeConfigRepo struct {
	stored   *domain.SalonSlotsConfig
	all      []*domain.SalonSlotsConfig
	upserted *domain.SalonSlotsConfig
}

func (f *fakeConfigRepo) GetBySalonAndService(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonSlotsConfig, error) {
	if f.stored == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	return f.stored, nil
}

func (f *fakeConfigRepo) GetConfigWithHierarchy(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonSlotsConfig, error) {
	if f.stored == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	return f.stored, nil
}

func (f *fakeConfigRepo) GetAllBySalon(ctx context.Context, salonID int64) ([]*domain.SalonSlotsConfig, error) {
	return f.all, nil
}

func (f *fakeConfigRepo) Upsert(ctx context.Context, cfg *domain.SalonSlotsConfig) (*domain.SalonSlotsConfig, error) {
	cfg.ID = 1
	f.upserted = cfg
	return cfg, nil
}

type fakeSalonClient struct {
	salon    *salonservice.Salon
	salonErr error
	services map[int64]*salonservice.Service
}

func (f *fakeSalonClient) GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error) {
	if f.salonErr != nil {
		return nil, f.salonErr
	}
	return f.salon, nil
}

func (f *fakeSalonClient) GetService(ctx context.Context, salonID, serviceID int64) (*salonservice.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok {
		return nil, salonservice.ErrServiceNotFound
	}
	return svc, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

const managerID = int64(100)

func newService(repo *fakeConfigRepo) *Service {
	return NewService(
		repo,
		&fakeSalonClient{
			salon: &salonservice.Salon{ID: 1, CapacitySeats: 3, ManagerIDs: []int64{managerID}},
			services: map[int64]*salonservice.Service{
				10: {ID: 10, SalonID: 1, Name: "Haircut", DurationMinutes: 60},
			},
		},
		nopLogger{},
	)
}

func validUpsert() *models.UpsertConfigRequest {
	return &models.UpsertConfigRequest{
		UserID:                  managerID,
		SalonID:                 1,
		SlotGranularityMinutes:  30,
		MaxConcurrentBookings:   2,
		AdvanceBookingDays:      30,
		MinBookingNoticeMinutes: 60,
		HoldTimeoutMinutes:      10,
	}
}

func TestService_Upsert(t *testing.T) {
	t.Run("manager saves salon-wide config", func(t *testing.T) {
		repo := &fakeConfigRepo{}
		svc := newService(repo)

		resp, err := svc.Upsert(context.Background(), validUpsert())

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.SalonID)
		assert.Nil(t, resp.ServiceID)
		require.NotNil(t, repo.upserted)
		assert.Equal(t, 30, repo.upserted.SlotGranularityMinutes)
	})

	t.Run("service-specific config validates the service", func(t *testing.T) {
		svc := newService(&fakeConfigRepo{})
		req := validUpsert()
		req.ServiceID = ptr.Ptr(int64(999))

		_, err := svc.Upsert(context.Background(), req)

		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("non-manager is denied", func(t *testing.T) {
		svc := newService(&fakeConfigRepo{})
		req := validUpsert()
		req.UserID = 55

		_, err := svc.Upsert(context.Background(), req)

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("out-of-range values rejected", func(t *testing.T) {
		svc := newService(&fakeConfigRepo{})

		cases := []func(r *models.UpsertConfigRequest){
			func(r *models.UpsertConfigRequest) { r.SlotGranularityMinutes = 3 },
			func(r *models.UpsertConfigRequest) { r.SlotGranularityMinutes = 500 },
			func(r *models.UpsertConfigRequest) { r.MaxConcurrentBookings = -1 },
			func(r *models.UpsertConfigRequest) { r.MaxConcurrentBookings = 101 },
			func(r *models.UpsertConfigRequest) { r.AdvanceBookingDays = 400 },
			func(r *models.UpsertConfigRequest) { r.MinBookingNoticeMinutes = -5 },
			func(r *models.UpsertConfigRequest) { r.HoldTimeoutMinutes = 0 },
			func(r *models.UpsertConfigRequest) { r.HoldTimeoutMinutes = 200 },
		}

		for i, mutate := range cases {
			req := validUpsert()
			mutate(req)

			_, err := svc.Upsert(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
		}
	})

	t.Run("unknown salon", func(t *testing.T) {
		svc := NewService(&fakeConfigRepo{}, &fakeSalonClient{salonErr: salonservice.ErrSalonNotFound}, nopLogger{})

		_, err := svc.Upsert(context.Background(), validUpsert())

		assert.ErrorIs(t, err, ErrSalonNotFound)
	})
}

func TestService_GetEffective(t *testing.T) {
	t.Run("returns stored config", func(t *testing.T) {
		svc := newService(&fakeConfigRepo{stored: &domain.SalonSlotsConfig{
			ID:                     5,
			SalonID:                1,
			SlotGranularityMinutes: 15,
			HoldTimeoutMinutes:     20,
		}})

		resp, err := svc.GetEffective(context.Background(), &models.GetConfigRequest{SalonID: 1})

		require.NoError(t, err)
		assert.Equal(t, 15, resp.SlotGranularityMinutes)
	})

	t.Run("falls back to defaults when nothing stored", func(t *testing.T) {
		svc := newService(&fakeConfigRepo{})

		resp, err := svc.GetEffective(context.Background(), &models.GetConfigRequest{SalonID: 1})

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.SalonID)
		assert.Equal(t, domain.DefaultSlotGranularityMinutes, resp.SlotGranularityMinutes)
		assert.Equal(t, domain.DefaultHoldTimeoutMinutes, resp.HoldTimeoutMinutes)
	})

	t.Run("invalid salon id", func(t *testing.T) {
		svc := newService(&fakeConfigRepo{})

		_, err := svc.GetEffective(context.Background(), &models.GetConfigRequest{SalonID: 0})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_GetAllBySalon(t *testing.T) {
	repo := &fakeConfigRepo{all: []*domain.SalonSlotsConfig{
		{ID: 1, SalonID: 1},
		{ID: 2, SalonID: 1, ServiceID: ptr.Ptr(int64(10))},
	}}

	t.Run("manager gets all configs", func(t *testing.T) {
		svc := newService(repo)

		resp, err := svc.GetAllBySalon(context.Background(), 1, managerID)

		require.NoError(t, err)
		assert.Len(t, resp.Configs, 2)
	})

	t.Run("non-manager is denied", func(t *testing.T) {
		svc := newService(repo)

		_, err := svc.GetAllBySalon(context.Background(), 1, 55)

		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
