// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tonearm/tonearm-backend/internal/config"
	"github.com/tonearm/tonearm-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established successfully")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Artist{},
		&models.TrackGroup{},
		&models.Track{},
		&models.Merch{},
		&models.SubscriptionTier{},
		&models.TipTier{},
		&models.TrackPurchase{},
		&models.TrackGroupPurchase{},
		&models.MerchPurchase{},
		&models.SubscriptionPayment{},
		&models.Tip{},
		&models.Fundraiser{},
		&models.Pledge{},
		&models.PlatformSettings{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)",

		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_artists_owner ON artists(owner_id)",
		"CREATE INDEX IF NOT EXISTS idx_track_groups_artist ON track_groups(artist_id, published)",
		"CREATE INDEX IF NOT EXISTS idx_tracks_group ON tracks(track_group_id)",
		"CREATE INDEX IF NOT EXISTS idx_merches_artist ON merches(artist_id)",

		// Purchase indexes; sales aggregation scans these by ownership and date
		"CREATE INDEX IF NOT EXISTS idx_track_purchases_track_date ON track_purchases(track_id, date_purchased DESC)",
		"CREATE INDEX IF NOT EXISTS idx_track_group_purchases_group_date ON track_group_purchases(track_group_id, date_purchased DESC)",
		"CREATE INDEX IF NOT EXISTS idx_merch_purchases_merch_date ON merch_purchases(merch_id, date_purchased DESC)",
		"CREATE INDEX IF NOT EXISTS idx_subscription_payments_tier_date ON subscription_payments(subscription_tier_id, date_purchased DESC)",
		"CREATE INDEX IF NOT EXISTS idx_tips_artist_date ON tips(artist_id, date_purchased DESC)",

		// Fundraiser indexes; the sweep sums active pledges per fundraiser
		"CREATE INDEX IF NOT EXISTS idx_fundraisers_artist_status ON fundraisers(artist_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_pledges_fundraiser_active ON pledges(fundraiser_id) WHERE cancelled_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_pledges_user ON pledges(user_id)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
