package database

import (
	"fmt"
	"time"

	"github.com/quotedesk/quotation-api/internal/config"
	"github.com/quotedesk/quotation-api/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.ConnectionString()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// AutoMigrate runs automatic migrations (for development only)
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Client{},
		&domain.SalesRep{},
		&domain.Supervisor{},
		&domain.Quotation{},
		&domain.QuotationProduct{},
		&domain.OrderLocation{},
		&domain.Driver{},
	)
}

// PoolStats is a snapshot of the connection pool, exposed by the readiness endpoint
type PoolStats struct {
	OpenConnections int `json:"open_connections"`
	InUse           int `json:"in_use"`
	Idle            int `json:"idle"`
}

// Stats returns current connection pool statistics
func Stats(db *gorm.DB) (PoolStats, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return PoolStats{}, fmt.Errorf("failed to get database instance: %w", err)
	}
	s := sqlDB.Stats()
	return PoolStats{
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
	}, nil
}
