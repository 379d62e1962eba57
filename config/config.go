package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the shared database handle, set by ConnectDatabase.
var DB *gorm.DB

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	LogLevel   string
	ImportDir  string
}

// Load reads configuration from a .env file when present, falling back to
// process environment variables and defaults.
func Load() *Config {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "sc2stats"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		ImportDir:  getEnv("IMPORT_DIR", "./imports"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// Connect opens the configured PostgreSQL database.
func (c *Config) Connect() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.DSN()), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %q: %w", c.DBName, err)
	}
	return db, nil
}

// ConnectDatabase connects with cfg and stores the handle in DB.
func ConnectDatabase(cfg *Config) error {
	db, err := cfg.Connect()
	if err != nil {
		return err
	}
	DB = db
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
