package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/booking-engine/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr error
	rollbacks int
	commits   int
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rollbacks++
	return nil
}

type fakeBeginner struct {
	begins int
	tx     *fakeTx
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	return b.tx, nil
}

func TestIsSerializationFailure(t *testing.T) {
	serialization := &pq.Error{Code: "40001"}
	deadlock := &pq.Error{Code: "40P01"}
	uniqueViolation := &pq.Error{Code: "23505"}
	sentinel := errors.New("repository: exec query failed")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "bare serialization failure", err: serialization, want: true},
		{name: "bare deadlock", err: deadlock, want: true},
		{name: "non retryable pq code", err: uniqueViolation, want: false},
		{
			name: "serialization failure wrapped by repository",
			err:  fmt.Errorf("%w: exec query: %w", sentinel, serialization),
			want: true,
		},
		{
			name: "serialization failure wrapped twice",
			err: fmt.Errorf("%w: create booking: %w", sentinel,
				fmt.Errorf("%w: exec query: %w", sentinel, serialization)),
			want: true,
		},
		{
			name: "serialization failure on commit",
			err:  fmt.Errorf("%w: commit: %w", ErrTransaction, serialization),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSerializationFailure(tt.err))
		})
	}
}

func TestDoSerializable_RetriesCommitConflict(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{commitErr: &pq.Error{Code: "40001"}}}
	manager := NewTransactionManager(beginner)

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.True(t, IsSerializationFailure(err))
	assert.ErrorIs(t, err, ErrTransaction)
	// первая попытка + maxSerializableRetries повторов
	assert.Equal(t, maxSerializableRetries+1, beginner.begins)
}

func TestDoSerializable_SucceedsAfterRetry(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	manager := NewTransactionManager(beginner)

	attempts := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("booking.repository: exec query failed: %w", &pq.Error{Code: "40001"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, beginner.begins)
	assert.Equal(t, 2, beginner.tx.rollbacks)
	assert.Equal(t, 1, beginner.tx.commits)
}

func TestDoSerializable_NoRetryOnOtherErrors(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	manager := NewTransactionManager(beginner)

	wantErr := errors.New("business rule violated")
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, beginner.begins)
	assert.Equal(t, 1, beginner.tx.rollbacks)
}
