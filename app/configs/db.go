package configs

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const retryDelay = 5 * time.Second

// Dialector picks the gorm driver for env.DBDriver. DATABASE_URL, when set,
// is used verbatim as the DSN.
func Dialector(env ENV) (gorm.Dialector, string, error) {
	dsn := env.DatabaseURL
	switch env.DBDriver {
	case "mysql":
		if dsn == "" {
			dsn = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				env.DBUser, env.DBPassword, env.DBHost, env.DBPort, env.DBName,
			)
		}
		return mysql.Open(dsn), dsn, nil
	case "postgres":
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
				env.DBHost, env.DBUser, env.DBPassword, env.DBName, env.DBPort,
			)
		}
		return postgres.Open(dsn), dsn, nil
	case "sqlite":
		if dsn == "" {
			dsn = env.DBName + ".db"
		}
		return sqlite.Open(dsn), dsn, nil
	default:
		return nil, "", fmt.Errorf("unsupported DB_DRIVER %q (want mysql, postgres or sqlite)", env.DBDriver)
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func OpenConnection(env ENV) (*gorm.DB, error) {
	dialector, dsn, err := Dialector(env)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogLevel(env.DBLogLevel),
		IgnoreRecordNotFoundError: true,
		Colorful:                  !env.IsProduction(),
	})

	maxRetries := env.DBMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	for i := 0; i < maxRetries; i++ {
		log.Printf("Attempting to connect to %s database (Attempt %d/%d)", env.DBDriver, i+1, maxRetries)
		db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(time.Hour)
					log.Println("Database connection successful")
					return db, nil
				}
			}
			log.Printf("Failed to ping database: %v. Retrying in %v...", pingErr, retryDelay)
		} else {
			log.Printf("Failed to open GORM connection: %v. Retrying in %v...", err, retryDelay)
		}

		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to the %s database after %d retries (dsn %s)", env.DBDriver, maxRetries, redactDSN(dsn, env.DBPassword))
}

func redactDSN(dsn, password string) string {
	if password == "" {
		return dsn
	}
	return strings.ReplaceAll(dsn, password, "****")
}
