package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Lock     LockConfig
	AMQP     AMQPConfig
	Log      LogConfig
	CLI      CLIConfig
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type JWTConfig struct {
	Secret string
	Issuer string
}

// RedisConfig selects the distributed lock. An empty Addr keeps locks in process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LockConfig struct {
	TTL  time.Duration
	Wait time.Duration
}

// AMQPConfig selects the event publisher. An empty URL disables publishing.
type AMQPConfig struct {
	URL      string
	Exchange string
}

type LogConfig struct {
	Level  string
	Format string
}

// CLIConfig holds identities used by the operator CLI.
type CLIConfig struct {
	Actor    string
	Reviewer string
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Driver: getEnv("PONTO_DB_DRIVER", "sqlite"),
			DSN:    getEnv("PONTO_DB_DSN", defaultDBPath()),
		},
		Server: ServerConfig{
			Addr:         getEnv("PONTO_HTTP_ADDR", ":8080"),
			ReadTimeout:  getDurationEnv("PONTO_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("PONTO_WRITE_TIMEOUT", 10*time.Second),
		},
		JWT: JWTConfig{
			Secret: getEnv("PONTO_JWT_SECRET", ""),
			Issuer: getEnv("PONTO_JWT_ISSUER", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("PONTO_REDIS_ADDR", ""),
			Password: getEnv("PONTO_REDIS_PASSWORD", ""),
			DB:       getIntEnv("PONTO_REDIS_DB", 0),
		},
		Lock: LockConfig{
			TTL:  getDurationEnv("PONTO_LOCK_TTL", 10*time.Second),
			Wait: getDurationEnv("PONTO_LOCK_WAIT", 5*time.Second),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("PONTO_AMQP_URL", ""),
			Exchange: getEnv("PONTO_AMQP_EXCHANGE", "ponto.sessions"),
		},
		Log: LogConfig{
			Level:  getEnv("PONTO_LOG_LEVEL", "info"),
			Format: getEnv("PONTO_LOG_FORMAT", "text"),
		},
		CLI: CLIConfig{
			Actor:    getEnv("PONTO_ACTOR", ""),
			Reviewer: getEnv("PONTO_REVIEWER", ""),
		},
	}
	return cfg, nil
}

// Validate checks settings every command needs.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("PONTO_DB_DRIVER: unsupported driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("PONTO_DB_DSN is required")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("PONTO_LOG_FORMAT: unsupported format %q", c.Log.Format)
	}
	if c.Lock.TTL <= 0 {
		return errors.New("PONTO_LOCK_TTL must be positive")
	}
	return nil
}

// ValidateServe adds the checks needed before serving HTTP.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.JWT.Secret == "" {
		return errors.New("PONTO_JWT_SECRET is required to serve the API")
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ponto.db"
	}
	return filepath.Join(home, ".ponto", "ponto.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
