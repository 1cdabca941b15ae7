package confirm_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/booking-engine/internal/domain"
	bookingRepo "github.com/glowdesk/booking-engine/internal/infra/storage/booking"
	configRepo "github.com/glowdesk/booking-engine/internal/infra/storage/config"
	"github.com/glowdesk/booking-engine/internal/integrations/payment"
	"github.com/glowdesk/booking-engine/internal/integrations/salonservice"
	"github.com/glowdesk/booking-engine/pkg/ptr"
)

type fakeBookingRepo struct {
	byOrder   map[string]*domain.Booking
	byPayment map[string]*domain.Booking
	occupying []*domain.Booking

	confirmed  []int64
	cancelled  []int64
	confirmErr error
	readCalls  int
}

func (f *fakeBookingRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error) {
	f.readCalls++
	if b, ok := f.byOrder[orderID]; ok {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeBookingRepo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error) {
	f.readCalls++
	if b, ok := f.byPayment[paymentID]; ok {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeBookingRepo) GetOccupyingForDate(ctx context.Context, salonID int64, date time.Time, now time.Time) ([]*domain.Booking, error) {
	return f.occupying, nil
}

func (f *fakeBookingRepo) Confirm(ctx context.Context, id int64, paymentID, signature string) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed = append(f.confirmed, id)
	return nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id int64, reason string) error {
	f.cancelled = append(f.cancelled, id)
	return nil
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
	salon *salonservice.Salon
	err   error
}

func (f *fakeSalonClient) GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.salon, nil
}

type fakeVerifier struct {
	valid bool
	seen  []payment.Proof
}

func (f *fakeVerifier) VerifySignature(proof payment.Proof) bool {
	f.seen = append(f.seen, proof)
	return f.valid
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSlotCache struct {
	invalidated []string
}

func (f *fakeSlotCache) InvalidateDate(ctx context.Context, salonID int64, date string) error {
	f.invalidated = append(f.invalidated, date)
	return nil
}

type fakeMetrics struct {
	reasons []string
}

func (f *fakeMetrics) IncManualReconciliation(reason string) {
	f.reasons = append(f.reasons, reason)
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

type fixture struct {
	uc      *UseCase
	repo    *fakeBookingRepo
	metrics *fakeMetrics
	cache   *fakeSlotCache
}

func pendingBooking(now time.Time, holdDelta time.Duration) *domain.Booking {
	return &domain.Booking{
		ID:              42,
		UserID:          7,
		SalonID:         1,
		BookingDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          domain.StatusPendingPayment,
		Services:        []domain.ServiceSnapshot{{ServiceID: 10, Name: "Haircut", PriceMinor: 50000, DurationMinutes: 60}},
		TotalPriceMinor: 50000,
		Currency:        "INR",
		OrderID:         ptr.Ptr("ord-123"),
		HoldExpiresAt:   ptr.Ptr(now.Add(holdDelta)),
	}
}

func newFixture(booking *domain.Booking, now time.Time) *fixture {
	repo := &fakeBookingRepo{
		byOrder:   map[string]*domain.Booking{},
		byPayment: map[string]*domain.Booking{},
	}
	if booking != nil {
		repo.byOrder[*booking.OrderID] = booking
	}

	metricsCollector := &fakeMetrics{}
	slotCache := &fakeSlotCache{}

	uc := NewUseCase(
		repo,
		&fakeConfigRepo{},
		&fakeSalonClient{salon: &salonservice.Salon{ID: 1, CapacitySeats: 1, Currency: "INR"}},
		&fakeVerifier{valid: true},
		slotCache,
		fakeTxManager{},
		metricsCollector,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}

	return &fixture{uc: uc, repo: repo, metrics: metricsCollector, cache: slotCache}
}

func validReq() *Request {
	return &Request{
		OrderID:   "ord-123",
		PaymentID: "pay-456",
		Signature: "deadbeef",
	}
}

func TestUseCase_Execute(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	t.Run("pending booking with live hold is confirmed", func(t *testing.T) {
		f := newFixture(pendingBooking(now, 5*time.Minute), now)

		resp, err := f.uc.Execute(context.Background(), validReq())

		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.BookingID)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
		assert.Equal(t, "pay-456", resp.PaymentID)
		assert.False(t, resp.AlreadyConfirmed)
		assert.Equal(t, []int64{42}, f.repo.confirmed)
		assert.Equal(t, []string{"2026-09-01"}, f.cache.invalidated)
		assert.Empty(t, f.metrics.reasons)
	})

	t.Run("tampered signature is rejected before any read or write", func(t *testing.T) {
		f := newFixture(pendingBooking(now, 5*time.Minute), now)
		f.uc.verifier = &fakeVerifier{valid: false}

		_, err := f.uc.Execute(context.Background(), validReq())

		assert.ErrorIs(t, err, ErrPaymentVerification)
		assert.Zero(t, f.repo.readCalls)
		assert.Empty(t, f.repo.confirmed)
		assert.Empty(t, f.repo.cancelled)
	})

	t.Run("redelivery of the same payment is idempotent", func(t *testing.T) {
		booking := pendingBooking(now, 5*time.Minute)
		booking.Status = domain.StatusConfirmed
		booking.PaymentID = ptr.Ptr("pay-456")
		f := newFixture(booking, now)
		f.repo.byPayment["pay-456"] = booking

		resp, err := f.uc.Execute(context.Background(), validReq())

		require.NoError(t, err)
		assert.True(t, resp.AlreadyConfirmed)
		assert.Equal(t, int64(42), resp.BookingID)
		// Повторная доставка ничего не пишет и не трогает кэш
		assert.Empty(t, f.repo.confirmed)
		assert.Empty(t, f.cache.invalidated)
	})

	t.Run("booking confirmed by a different payment", func(t *testing.T) {
		booking := pendingBooking(now, 5*time.Minute)
		booking.Status = domain.StatusConfirmed
		booking.PaymentID = ptr.Ptr("pay-other")
		f := newFixture(booking, now)

		_, err := f.uc.Execute(context.Background(), validReq())

		assert.ErrorIs(t, err, ErrAlreadyPaid)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture(nil, now)

		_, err := f.uc.Execute(context.Background(), validReq())

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("payment for a swept booking goes to manual reconciliation", func(t *testing.T) {
		booking := pendingBooking(now, -time.Minute)
		booking.Status = domain.StatusCancelled
		f := newFixture(booking, now)

		_, err := f.uc.Execute(context.Background(), validReq())

		assert.ErrorIs(t, err, ErrBookingNotConfirmable)
		assert.Equal(t, []string{"payment_for_cancelled_booking"}, f.metrics.reasons)
		assert.Empty(t, f.repo.confirmed)
	})

	t.Run("expired hold confirms when the seat is still free", func(t *testing.T) {
		booking := pendingBooking(now, -time.Minute)
		f := newFixture(booking, now)
		f.repo.occupying = []*domain.Booking{booking} // только само бронирование

		resp, err := f.uc.Execute(context.Background(), validReq())

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
		assert.Equal(t, []int64{42}, f.repo.confirmed)
		assert.Empty(t, f.metrics.reasons)
	})

	t.Run("expired hold with stolen seat cancels and reports conflict", func(t *testing.T) {
		booking := pendingBooking(now, -time.Minute)
		f := newFixture(booking, now)
		f.repo.occupying = []*domain.Booking{
			booking,
			{ID: 99, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		}

		_, err := f.uc.Execute(context.Background(), validReq())

		assert.ErrorIs(t, err, ErrSlotConflict)
		assert.Equal(t, []int64{42}, f.repo.cancelled)
		assert.Equal(t, []string{"slot_conflict"}, f.metrics.reasons)
		assert.Empty(t, f.repo.confirmed)
	})

	t.Run("salon removed from directory skips capacity recheck", func(t *testing.T) {
		booking := pendingBooking(now, -time.Minute)
		f := newFixture(booking, now)
		f.uc.salonClient = &fakeSalonClient{err: salonservice.ErrSalonNotFound}
		f.repo.occupying = []*domain.Booking{
			booking,
			{ID: 99, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		}

		resp, err := f.uc.Execute(context.Background(), validReq())

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	})

	t.Run("concurrent status change surfaces as not confirmable", func(t *testing.T) {
		f := newFixture(pendingBooking(now, 5*time.Minute), now)
		f.repo.confirmErr = bookingRepo.ErrNotPendingPayment

		_, err := f.uc.Execute(context.Background(), validReq())

		assert.ErrorIs(t, err, ErrBookingNotConfirmable)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		f := newFixture(nil, now)

		_, err := f.uc.Execute(context.Background(), &Request{PaymentID: "p", Signature: "s"})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = f.uc.Execute(context.Background(), &Request{OrderID: "o", Signature: "s"})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = f.uc.Execute(context.Background(), &Request{OrderID: "o", PaymentID: "p"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
