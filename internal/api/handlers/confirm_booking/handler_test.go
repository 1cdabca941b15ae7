package confirm_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	confirmBooking "github.com/glowdesk/booking-engine/internal/usecase/confirm_booking"
)

type fakeUseCase struct {
	resp *confirmBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *confirmBooking.Request) (*confirmBooking.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func doRequest(t *testing.T, h *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/confirm", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func validBody() ConfirmBookingRequest {
	return ConfirmBookingRequest{
		OrderID:   "ord-123",
		PaymentID: "pay-456",
		Signature: "deadbeef",
	}
}

func TestHandler_Handle(t *testing.T) {
	t.Run("confirmed booking returns 200 with payload", func(t *testing.T) {
		h := NewHandler(&fakeUseCase{resp: &confirmBooking.Response{
			BookingID:       42,
			SalonID:         1,
			UserID:          7,
			BookingDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			StartTime:       "10:00",
			DurationMinutes: 60,
			Status:          "confirmed",
			PaymentID:       "pay-456",
		}}, nopLogger{})

		rec := doRequest(t, h, validBody())

		require.Equal(t, http.StatusOK, rec.Code)

		var resp ConfirmBookingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(42), resp.BookingID)
		assert.Equal(t, "2026-09-01", resp.BookingDate)
		assert.Equal(t, "10:00", resp.StartTime)
		assert.Equal(t, "confirmed", resp.Status)
	})

	t.Run("tampered signature returns 402", func(t *testing.T) {
		h := NewHandler(&fakeUseCase{err: confirmBooking.ErrPaymentVerification}, nopLogger{})

		rec := doRequest(t, h, validBody())

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	})

	t.Run("unknown order returns 404", func(t *testing.T) {
		h := NewHandler(&fakeUseCase{err: confirmBooking.ErrOrderNotFound}, nopLogger{})

		rec := doRequest(t, h, validBody())

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("conflicts return 409", func(t *testing.T) {
		for _, ucErr := range []error{
			confirmBooking.ErrAlreadyPaid,
			confirmBooking.ErrSlotConflict,
			confirmBooking.ErrBookingNotConfirmable,
		} {
			h := NewHandler(&fakeUseCase{err: ucErr}, nopLogger{})

			rec := doRequest(t, h, validBody())

			assert.Equal(t, http.StatusConflict, rec.Code, ucErr)
		}
	})

	t.Run("invalid input returns 400", func(t *testing.T) {
		h := NewHandler(&fakeUseCase{err: confirmBooking.ErrInvalidInput}, nopLogger{})

		rec := doRequest(t, h, validBody())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		h := NewHandler(&fakeUseCase{}, nopLogger{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/confirm", bytes.NewReader([]byte("{broken")))
		rec := httptest.NewRecorder()
		h.Handle(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unexpected error returns 500", func(t *testing.T) {
		h := NewHandler(&fakeUseCase{err: confirmBooking.ErrInternal}, nopLogger{})

		rec := doRequest(t, h, validBody())

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
