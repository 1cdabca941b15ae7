package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/booking-engine/internal/domain"
	bookingRepo "github.com/glowdesk/booking-engine/internal/infra/storage/booking"
	"github.com/glowdesk/booking-engine/internal/integrations/salonservice"
	"github.com/glowdesk/booking-engine/internal/service/bookings/models"
	"github.com/glowdesk/booking-engine/pkg/ptr"
)

type fakeBookingRepo struct {
	byID map[int64]*domain.Booking

	cancelledID     int64
	cancelledReason string
	updatedStatus   domain.BookingStatus
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if b, ok := f.byID[id]; ok {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeBookingRepo) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.byID {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetBySalonWithFilter(ctx context.Context, filter domain.SalonBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.byID {
		if b.SalonID == filter.SalonID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	if _, ok := f.byID[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.updatedStatus = status
	return nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id int64, reason string) error {
	if _, ok := f.byID[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.cancelledID = id
	f.cancelledReason = reason
	return nil
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

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

const (
	ownerID   = int64(7)
	managerID = int64(100)
	otherID   = int64(55)
)

func newService(bookings ...*domain.Booking) (*Service, *fakeBookingRepo) {
	repo := &fakeBookingRepo{byID: map[int64]*domain.Booking{}}
	for _, b := range bookings {
		repo.byID[b.ID] = b
	}
	svc := NewService(
		repo,
		&fakeSalonClient{salon: &salonservice.Salon{ID: 1, ManagerIDs: []int64{managerID}}},
		nopLogger{},
	)
	return svc, repo
}

func confirmedBooking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		UserID:          ownerID,
		SalonID:         1,
		BookingDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
		TotalPriceMinor: 50000,
		Currency:        "INR",
		PaymentID:       ptr.Ptr("pay-456"),
	}
}

func TestService_GetByID(t *testing.T) {
	t.Run("owner sees own booking", func(t *testing.T) {
		svc, _ := newService(confirmedBooking(1))

		resp, err := svc.GetByID(context.Background(), 1, ownerID)

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
	})

	t.Run("salon manager sees any booking of the salon", func(t *testing.T) {
		svc, _ := newService(confirmedBooking(1))

		_, err := svc.GetByID(context.Background(), 1, managerID)

		assert.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		svc, _ := newService(confirmedBooking(1))

		_, err := svc.GetByID(context.Background(), 1, otherID)

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, _ := newService()

		_, err := svc.GetByID(context.Background(), 404, ownerID)

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_Cancel(t *testing.T) {
	t.Run("owner cancels own booking", func(t *testing.T) {
		svc, repo := newService(confirmedBooking(1))

		err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
			UserID:             ownerID,
			CancellationReason: "changed my mind",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), repo.cancelledID)
		assert.Equal(t, "changed my mind", repo.cancelledReason)
	})

	t.Run("manager cancels a client booking", func(t *testing.T) {
		svc, repo := newService(confirmedBooking(1))

		err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
			UserID:             managerID,
			CancellationReason: "salon closed for repairs",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), repo.cancelledID)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		svc, _ := newService(confirmedBooking(1))

		err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: otherID})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("terminal booking cannot be cancelled", func(t *testing.T) {
		b := confirmedBooking(1)
		b.Status = domain.StatusCompleted
		svc, _ := newService(b)

		err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: ownerID})

		assert.ErrorIs(t, err, ErrCannotCancel)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	t.Run("manager marks booking completed", func(t *testing.T) {
		svc, repo := newService(confirmedBooking(1))

		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			UserID: managerID,
			Status: "completed",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, repo.updatedStatus)
	})

	t.Run("owner without manager rights is denied", func(t *testing.T) {
		svc, _ := newService(confirmedBooking(1))

		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			UserID: ownerID,
			Status: "completed",
		})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("payment-flow statuses cannot be set manually", func(t *testing.T) {
		svc, _ := newService(confirmedBooking(1))

		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			UserID: managerID,
			Status: "confirmed",
		})
		assert.ErrorIs(t, err, ErrInvalidStatus)

		err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			UserID: managerID,
			Status: "pending_payment",
		})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc, _ := newService(confirmedBooking(1))

		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			UserID: managerID,
			Status: "teleported",
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_GetUserBookings(t *testing.T) {
	svc, _ := newService(confirmedBooking(1), confirmedBooking(2))

	t.Run("returns user bookings", func(t *testing.T) {
		resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: ownerID})

		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 2)
	})

	t.Run("invalid status filter rejected", func(t *testing.T) {
		bad := "bogus"
		_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
			UserID: ownerID,
			Status: &bad,
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_GetSalonBookings(t *testing.T) {
	t.Run("manager gets salon bookings", func(t *testing.T) {
		svc, _ := newService(confirmedBooking(1))

		resp, err := svc.GetSalonBookings(context.Background(), &models.GetSalonBookingsRequest{
			SalonID: 1,
			UserID:  managerID,
		})

		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 1)
	})

	t.Run("non-manager is denied", func(t *testing.T) {
		svc, _ := newService(confirmedBooking(1))

		_, err := svc.GetSalonBookings(context.Background(), &models.GetSalonBookingsRequest{
			SalonID: 1,
			UserID:  ownerID,
		})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
