package holdsweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeBookingRepo struct {
	calls atomic.Int64
	err   error
}

func (f *fakeBookingRepo) CancelExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	f.calls.Add(1)
	if f.err != nil {
		return 0, f.err
	}
	return 2, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestSweeper_Run(t *testing.T) {
	t.Run("sweeps on every tick until context is cancelled", func(t *testing.T) {
		repo := &fakeBookingRepo{}
		sweeper := New(repo, 10*time.Millisecond, nopLogger{})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			sweeper.Run(ctx)
			close(done)
		}()

		time.Sleep(60 * time.Millisecond)
		cancel()
		<-done

		assert.GreaterOrEqual(t, repo.calls.Load(), int64(2))
	})

	t.Run("keeps running after a sweep error", func(t *testing.T) {
		repo := &fakeBookingRepo{err: errors.New("db down")}
		sweeper := New(repo, 10*time.Millisecond, nopLogger{})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			sweeper.Run(ctx)
			close(done)
		}()

		time.Sleep(60 * time.Millisecond)
		cancel()
		<-done

		assert.GreaterOrEqual(t, repo.calls.Load(), int64(2))
	})
}
