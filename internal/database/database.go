package database

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/team-task-board/internal/config"
	"github.com/yukikurage/team-task-board/internal/logging"
	"github.com/yukikurage/team-task-board/internal/models"
)

var DB *gorm.DB

// PredefinedDepartments are inserted on first start when the table is empty.
var PredefinedDepartments = []string{
	"TI",
	"Iniciação profissional",
	"Probem",
	"Gestão",
	"Contabilidade",
	"NEJ",
}

func Connect(cfg *config.Config) error {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logging.GormLogLevel()),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.WithField("driver", cfg.DBDriver).Info("Database connection established")
	return nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBSSLMode,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Migrate creates or updates the schema on db.
func Migrate(db *gorm.DB) error {
	log.Info("Running database migrations...")
	err := db.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.Task{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations completed")
	return nil
}

// SeedDepartments inserts PredefinedDepartments when no department exists yet.
func SeedDepartments(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Department{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count departments: %w", err)
	}
	if count > 0 {
		log.Debug("Departments already exist, skipping seed")
		return nil
	}

	departments := make([]models.Department, len(PredefinedDepartments))
	for i, name := range PredefinedDepartments {
		departments[i] = models.Department{Name: name}
	}
	if err := db.Create(&departments).Error; err != nil {
		return fmt.Errorf("failed to seed departments: %w", err)
	}
	log.WithField("count", len(departments)).Info("Predefined departments added")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
