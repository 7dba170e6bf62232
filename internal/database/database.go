package database

import (
	"time"

	"github.com/Xyleee/api-devguidance/internal/config"
	"github.com/Xyleee/api-devguidance/internal/migrations"
	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	dsn := config.AppConfig.DatabaseURL
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to get underlying sql.DB")
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	DB = db
	logger.Info().Int("max_open", 25).Int("max_idle", 10).Msg("Connected to PostgreSQL")
}

// Migrate creates the tables and then applies the index migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	return migrations.NewMigrator(db).Run()
}

// Ping reports whether the database answers.
func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
