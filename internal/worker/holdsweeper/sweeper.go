package holdsweeper

import (
	"context"
	"time"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CancelExpiredHolds(ctx context.Context, now time.Time) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sweeper фоновая чистка просроченных pending_payment бронирований.
// Расчет занятости и так игнорирует просроченные holds по hold_expires_at,
// чистка нужна только для гигиены статусов: неоплаченные бронирования
// переводятся в cancelled, чтобы у пользователя в истории не висел
// вечный pending_payment.
type Sweeper struct {
	bookingRepo BookingRepository
	interval    time.Duration
	logger      Logger
}

// New создает новый экземпляр чистки
func New(bookingRepo BookingRepository, interval time.Duration, logger Logger) *Sweeper {
	return &Sweeper{
		bookingRepo: bookingRepo,
		interval:    interval,
		logger:      logger,
	}
}

// Run запускает цикл чистки; блокируется до отмены контекста
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("holdsweeper: started, interval=%s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("holdsweeper: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cancelled, err := s.bookingRepo.CancelExpiredHolds(ctx, time.Now())
	if err != nil {
		s.logger.Error("holdsweeper: sweep failed: %v", err)
		return
	}

	if cancelled > 0 {
		s.logger.Info("holdsweeper: cancelled %d expired holds", cancelled)
	}
}
