package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/EmpoweredVote/EV-Complaints/internal/config"
	applog "github.com/EmpoweredVote/EV-Complaints/internal/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg config.Database) error {
	if cfg.URL == "" {
		return config.ErrMissingDatabaseURL
	}

	// gorm warnings and slow queries go to the "gorm" zap logger.
	lg := logger.New(
		zap.NewStdLog(applog.L().Named("gorm")),
		logger.Config{
			SlowThreshold:             cfg.SlowQuery,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	conn, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: lg,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	DB = conn
	applog.L().Info("connected to database", zap.Duration("slow_query", cfg.SlowQuery))
	return nil
}

// Close releases the pool. Safe to call when Connect never ran.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping is used by the health endpoint.
func Ping(ctx context.Context) error {
	if DB == nil {
		return errors.New("database not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
