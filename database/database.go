package database

import (
	"errors"
	"fmt"

	"github.com/CUknot/forum_backend/logging"
	"github.com/CUknot/forum_backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ErrNotFound is returned by the query helpers when no row matches
var ErrNotFound = errors.New("record not found")

// Connect establishes a connection to the postgres database described by dsn
func Connect(dsn string) error {
	if err := Open(postgres.Open(dsn)); err != nil {
		return err
	}
	logging.Info().Msg("Database connection established")
	return nil
}

// Open installs a connection built from any gorm dialector as DB
func Open(dialector gorm.Dialector) error {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGormLogger(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	DB = db
	return nil
}

// Migrate automatically migrates the database schema
func Migrate() error {
	if err := DB.SetupJoinTable(&models.Room{}, "Participants", &models.RoomParticipant{}); err != nil {
		return fmt.Errorf("failed to set up participants join table: %w", err)
	}
	if err := DB.AutoMigrate(&models.User{}, &models.Topic{}, &models.Room{}, &models.RoomParticipant{}, &models.Message{}); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	logging.Info().Msg("Database migration completed")
	return nil
}

// Ping checks that the underlying connection is alive
func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
