package database

import (
	"context"
	"errors"

	"github.com/quotedesk/quotation-api/internal/config"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrTimedOut reports that a database operation exhausted its timeout budget.
var ErrTimedOut = errors.New("database operation timed out")

// Gateway wraps database access with the timeout and retry policy.
// Reads retry transient failures with exponential backoff; writes run at
// most once so a timed-out transaction is never replayed against the
// database.
type Gateway struct {
	cfg    *config.RetryConfig
	logger *zap.Logger
}

// NewGateway creates a gateway with the given retry policy
func NewGateway(cfg *config.RetryConfig, logger *zap.Logger) *Gateway {
	return &Gateway{
		cfg:    cfg,
		logger: logger,
	}
}

// Read executes fn under the data timeout, retrying transient failures up to
// the configured attempt budget. Record-not-found is terminal and returned
// unwrapped so callers can map it to their own sentinel.
func (g *Gateway) Read(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(g.cfg.MaxAttempts-1), retry.NewExponential(g.cfg.InitialBackoffDuration()))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		opCtx, cancel := context.WithTimeout(ctx, g.cfg.DataTimeoutDuration())
		defer cancel()

		err := fn(opCtx)
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		g.logger.Warn("database read failed",
			zap.String("operation", name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.cfg.MaxAttempts),
			zap.Error(err),
		)
		return retry.RetryableError(err)
	})

	return g.mapTimeout(name, err)
}

// Write executes fn exactly once under the data timeout. No retries: a write
// that timed out may still have committed, and replaying it could apply the
// mutation twice.
func (g *Gateway) Write(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	opCtx, cancel := context.WithTimeout(ctx, g.cfg.DataTimeoutDuration())
	defer cancel()

	if err := fn(opCtx); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		g.logger.Warn("database write failed",
			zap.String("operation", name),
			zap.Error(err),
		)
		return g.mapTimeout(name, err)
	}
	return nil
}

// Health executes fn once under the tighter health-check timeout
func (g *Gateway) Health(ctx context.Context, fn func(ctx context.Context) error) error {
	opCtx, cancel := context.WithTimeout(ctx, g.cfg.HealthTimeoutDuration())
	defer cancel()

	return g.mapTimeout("health", fn(opCtx))
}

func (g *Gateway) mapTimeout(name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		g.logger.Error("database operation timed out",
			zap.String("operation", name),
			zap.Duration("data_timeout", g.cfg.DataTimeoutDuration()),
		)
		return ErrTimedOut
	}
	return err
}

// HealthCheck pings the database through the gateway's health timeout
func HealthCheck(ctx context.Context, db *gorm.DB, gw *Gateway) error {
	return gw.Health(ctx, func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}
