package create_order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/booking-engine/internal/domain"
	configRepo "github.com/glowdesk/booking-engine/internal/infra/storage/config"
	"github.com/glowdesk/booking-engine/internal/integrations/payment"
	"github.com/glowdesk/booking-engine/internal/integrations/salonservice"
	"github.com/glowdesk/booking-engine/pkg/types"
)

type fakeBookingRepo struct {
	occupying    []*domain.Booking
	occupyingTx  []*domain.Booking
	inTx         bool
	created      *domain.Booking
	createCalled int
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.createCalled++
	booking.ID = 42
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	f.created = booking
	return booking, nil
}

func (f *fakeBookingRepo) GetOccupyingForDate(ctx context.Context, salonID int64, date time.Time, now time.Time) ([]*domain.Booking, error) {
	if f.inTx && f.occupyingTx != nil {
		return f.occupyingTx, nil
	}
	return f.occupying, nil
}

type fakeConfigRepo struct {
	cfg *domain.SalonSlotsConfig
}

func (f *fakeConfigRepo) GetConfigWithHierarchy(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonSlotsConfig, error) {
	if f.cfg == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	return f.cfg, nil
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

type fakePaymentClient struct {
	order  *payment.Order
	err    error
	called int
}

func (f *fakePaymentClient) CreateOrder(ctx context.Context, amountMinor int64, currency string) (*payment.Order, error) {
	f.called++
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

// fakeTxManager выполняет колбэк без настоящей транзакции,
// помечая репозиторий флагом inTx для подмены данных внутри "транзакции"
type fakeTxManager struct {
	repo *fakeBookingRepo
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.repo != nil {
		f.repo.inTx = true
		defer func() { f.repo.inTx = false }()
	}
	return fn(ctx)
}

type fakeSlotCache struct {
	invalidated []string
}

func (f *fakeSlotCache) InvalidateDate(ctx context.Context, salonID int64, date string) error {
	f.invalidated = append(f.invalidated, date)
	return nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testSalon(seats int) *salonservice.Salon {
	open := "09:00"
	close := "18:00"
	day := salonservice.DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &close}
	return &salonservice.Salon{
		ID:            1,
		Name:          "Glow Studio",
		CapacitySeats: seats,
		Currency:      "INR",
		WorkingHours: salonservice.WeekSchedule{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
			Saturday:  day,
		},
	}
}

type fixture struct {
	uc       *UseCase
	repo     *fakeBookingRepo
	payments *fakePaymentClient
	cache    *fakeSlotCache
}

func newFixture(seats int, occupying []*domain.Booking, now time.Time) *fixture {
	repo := &fakeBookingRepo{occupying: occupying}
	payments := &fakePaymentClient{
		order: &payment.Order{ID: "ord-123", AmountMinor: 50000, Currency: "INR", Status: "created"},
	}
	slotCache := &fakeSlotCache{}

	uc := NewUseCase(
		repo,
		&fakeConfigRepo{},
		&fakeSalonClient{
			salon: testSalon(seats),
			services: map[int64]*salonservice.Service{
				10: {ID: 10, SalonID: 1, Name: "Haircut", PriceMinor: 50000, DurationMinutes: 60},
			},
		},
		payments,
		slotCache,
		&fakeTxManager{repo: repo},
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}

	return &fixture{uc: uc, repo: repo, payments: payments, cache: slotCache}
}

func TestUseCase_Execute(t *testing.T) {
	// 2026-09-01 вторник
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	validReq := func() *Request {
		return &Request{
			UserID:     7,
			SalonID:    1,
			ServiceIDs: []int64{10},
			Date:       tuesday,
			StartTime:  "10:00",
		}
	}

	t.Run("happy path creates pending booking with soft hold", func(t *testing.T) {
		f := newFixture(2, nil, now)

		resp, err := f.uc.Execute(context.Background(), validReq())

		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.BookingID)
		assert.Equal(t, "ord-123", resp.OrderID)
		assert.Equal(t, int64(50000), resp.AmountMinor)
		assert.Equal(t, "INR", resp.Currency)
		assert.Equal(t, string(domain.StatusPendingPayment), resp.Status)
		assert.Equal(t, now.Add(10*time.Minute), resp.HoldExpiresAt)

		require.NotNil(t, f.repo.created)
		assert.Equal(t, domain.StatusPendingPayment, f.repo.created.Status)
		require.NotNil(t, f.repo.created.OrderID)
		assert.Equal(t, "ord-123", *f.repo.created.OrderID)
		require.NotNil(t, f.repo.created.HoldExpiresAt)
		require.Len(t, f.repo.created.Services, 1)
		assert.Equal(t, int64(50000), f.repo.created.Services[0].PriceMinor)

		assert.Equal(t, []string{"2026-09-01"}, f.cache.invalidated)
	})

	t.Run("full slot rejected before provider order is created", func(t *testing.T) {
		occupied := []*domain.Booking{
			{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		}
		f := newFixture(1, occupied, now)

		_, err := f.uc.Execute(context.Background(), validReq())

		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Zero(t, f.payments.called)
		assert.Zero(t, f.repo.createCalled)
	})

	t.Run("conflict inside transaction abandons provider order", func(t *testing.T) {
		f := newFixture(1, nil, now)
		// Конкурент занял последнее кресло между pre-check и транзакцией
		f.repo.occupyingTx = []*domain.Booking{
			{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		}

		_, err := f.uc.Execute(context.Background(), validReq())

		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Equal(t, 1, f.payments.called)
		assert.Zero(t, f.repo.createCalled)
	})

	t.Run("expired hold does not block the seat", func(t *testing.T) {
		expired := now.Add(-time.Minute)
		occupied := []*domain.Booking{
			{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusPendingPayment, HoldExpiresAt: &expired},
		}
		f := newFixture(1, occupied, now)

		_, err := f.uc.Execute(context.Background(), validReq())

		require.NoError(t, err)
		assert.Equal(t, 1, f.repo.createCalled)
	})

	t.Run("payment provider failure", func(t *testing.T) {
		f := newFixture(2, nil, now)
		f.payments.err = payment.ErrOrderCreation

		_, err := f.uc.Execute(context.Background(), validReq())

		assert.ErrorIs(t, err, ErrPaymentProvider)
		assert.Zero(t, f.repo.createCalled)
	})

	t.Run("off-grid start time rejected", func(t *testing.T) {
		f := newFixture(2, nil, now)
		req := validReq()
		req.StartTime = "10:17"

		_, err := f.uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})

	t.Run("slot ending after closing time rejected", func(t *testing.T) {
		f := newFixture(2, nil, now)
		req := validReq()
		req.StartTime = "17:30" // 60 минут не помещаются до 18:00

		_, err := f.uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})

	t.Run("closed day rejected", func(t *testing.T) {
		f := newFixture(2, nil, now)
		req := validReq()
		req.Date = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC) // воскресенье

		_, err := f.uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrSalonClosed)
	})

	t.Run("same-day booking violating minimum notice rejected", func(t *testing.T) {
		f := newFixture(2, nil, now)
		f.uc.configRepo = &fakeConfigRepo{cfg: &domain.SalonSlotsConfig{
			SlotGranularityMinutes:  30,
			MinBookingNoticeMinutes: 120,
			HoldTimeoutMinutes:      10,
		}}
		req := validReq()
		req.Date = now // сегодня, 12:00
		req.StartTime = "13:00"

		_, err := f.uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrTooLateToBook)
	})

	t.Run("salon not found", func(t *testing.T) {
		f := newFixture(2, nil, now)
		f.uc.salonClient = &fakeSalonClient{salonErr: salonservice.ErrSalonNotFound}

		_, err := f.uc.Execute(context.Background(), validReq())

		assert.ErrorIs(t, err, ErrSalonNotFound)
	})

	t.Run("validation failures", func(t *testing.T) {
		f := newFixture(2, nil, now)

		req := validReq()
		req.UserID = 0
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)

		req = validReq()
		req.StartTime = types.TimeString("25:99")
		_, err = f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)

		req = validReq()
		req.ServiceIDs = nil
		_, err = f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
