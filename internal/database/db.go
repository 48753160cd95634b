package database

import (
	"fmt"
	"time"

	"stockbook/internal/config"
	"stockbook/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every table managed by AutoMigrate, parents before children.
var Models = []any{
	&model.User{},
	&model.AuditLog{},
	&model.Location{},
	&model.Product{},
	&model.Inventory{},
	&model.Supplier{},
	&model.SupplierProduct{},
	&model.SupplierOrder{},
	&model.OrderItem{},
	&model.Sale{},
	&model.Prediction{},
	&model.Invoice{},
	&model.InvoiceItem{},
	&model.Payment{},
	&model.PriceRevaluation{},
}

// NewConnection initializes a new connection pool using GORM
func NewConnection(cfg config.PostgresConfig, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	// Auto-migrate core models
	if err := db.AutoMigrate(Models...); err != nil {
		logger.Warn("failed to auto-migrate models", zap.Error(err))
	}

	return db, nil
}
