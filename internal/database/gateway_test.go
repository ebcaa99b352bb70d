package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quotedesk/quotation-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testGateway(t *testing.T) *Gateway {
	t.Helper()
	return NewGateway(&config.RetryConfig{
		MaxAttempts:      3,
		InitialBackoffMs: 1,
		DataTimeoutSec:   10,
		HealthTimeoutSec: 5,
	}, zap.NewNop())
}

func TestGatewayRead(t *testing.T) {
	t.Run("succeeds first attempt", func(t *testing.T) {
		gw := testGateway(t)
		attempts := 0
		err := gw.Read(context.Background(), "test", func(ctx context.Context) error {
			attempts++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries transient failures up to the attempt budget", func(t *testing.T) {
		gw := testGateway(t)
		attempts := 0
		boom := errors.New("connection reset")
		err := gw.Read(context.Background(), "test", func(ctx context.Context) error {
			attempts++
			return boom
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, attempts)
	})

	t.Run("recovers when a later attempt succeeds", func(t *testing.T) {
		gw := testGateway(t)
		attempts := 0
		err := gw.Read(context.Background(), "test", func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("record not found is terminal", func(t *testing.T) {
		gw := testGateway(t)
		attempts := 0
		err := gw.Read(context.Background(), "test", func(ctx context.Context) error {
			attempts++
			return gorm.ErrRecordNotFound
		})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.Equal(t, 1, attempts)
	})

	t.Run("per attempt deadline surfaces as ErrTimedOut", func(t *testing.T) {
		gw := NewGateway(&config.RetryConfig{
			MaxAttempts:      2,
			InitialBackoffMs: 1,
			DataTimeoutSec:   0,
			HealthTimeoutSec: 1,
		}, zap.NewNop())
		err := gw.Read(context.Background(), "test", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		assert.ErrorIs(t, err, ErrTimedOut)
	})

	t.Run("caller cancellation stops retrying", func(t *testing.T) {
		gw := testGateway(t)
		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0
		err := gw.Read(ctx, "test", func(ctx context.Context) error {
			attempts++
			cancel()
			return errors.New("transient")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})
}

func TestGatewayWrite(t *testing.T) {
	t.Run("never retries", func(t *testing.T) {
		gw := testGateway(t)
		attempts := 0
		boom := errors.New("connection reset")
		err := gw.Write(context.Background(), "test", func(ctx context.Context) error {
			attempts++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, attempts)
	})

	t.Run("maps deadline to ErrTimedOut", func(t *testing.T) {
		gw := testGateway(t)
		err := gw.Write(context.Background(), "test", func(ctx context.Context) error {
			return context.DeadlineExceeded
		})
		assert.ErrorIs(t, err, ErrTimedOut)
	})

	t.Run("passes record not found through", func(t *testing.T) {
		gw := testGateway(t)
		err := gw.Write(context.Background(), "test", func(ctx context.Context) error {
			return gorm.ErrRecordNotFound
		})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestGatewayHealth(t *testing.T) {
	gw := testGateway(t)

	t.Run("applies the health timeout", func(t *testing.T) {
		var deadline time.Time
		start := time.Now()
		err := gw.Health(context.Background(), func(ctx context.Context) error {
			d, ok := ctx.Deadline()
			require.True(t, ok)
			deadline = d
			return nil
		})
		require.NoError(t, err)
		assert.WithinDuration(t, start.Add(5*time.Second), deadline, time.Second)
	})

	t.Run("maps deadline to ErrTimedOut", func(t *testing.T) {
		err := gw.Health(context.Background(), func(ctx context.Context) error {
			return context.DeadlineExceeded
		})
		assert.ErrorIs(t, err, ErrTimedOut)
	})
}
