package initializers

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectToDB opens the store named by DB_DRIVER. The returned handle is owned
// by the caller and shared by every service.
func ConnectToDB(config Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.DBDriver {
	case "postgres", "postgresql", "":
		dialector = postgres.Open(config.DatabaseURL)
	case "mysql":
		dialector = mysql.Open(config.DatabaseURL)
	case "sqlite":
		dialector = sqlite.Open(config.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: postgres, mysql, sqlite)", config.DBDriver)
	}

	logLevel := logger.Warn
	if config.GinMode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", config.DBDriver, err)
	}

	log.WithField("driver", config.DBDriver).Println("Connected to database.")
	return db, nil
}
