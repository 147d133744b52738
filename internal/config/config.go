package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StateBackendMemory = "memory"
	StateBackendRedis  = "redis"
)

type Config struct {
	TelegramToken string `yaml:"telegram_token" envconfig:"TELEGRAM_TOKEN"`
	Environment   string `yaml:"env" envconfig:"ENV"`

	DBDriver string `yaml:"db_driver" envconfig:"DB_DRIVER"`
	DBDSN    string `yaml:"db_dsn" envconfig:"DB_DSN"`

	AdminIDs []int64 `yaml:"admin_ids" envconfig:"ADMIN_IDS"`

	// Расписание в формате cron, время в часовом поясе Timezone
	Timezone             string `yaml:"timezone" envconfig:"TIMEZONE"`
	ActivationSchedule   string `yaml:"activation_schedule" envconfig:"ACTIVATION_SCHEDULE"`
	DeactivationSchedule string `yaml:"deactivation_schedule" envconfig:"DEACTIVATION_SCHEDULE"`

	StateBackend  string        `yaml:"state_backend" envconfig:"STATE_BACKEND"`
	StateTTL      time.Duration `yaml:"state_ttl" envconfig:"STATE_TTL"`
	RedisAddr     string        `yaml:"redis_addr" envconfig:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" envconfig:"REDIS_DB"`

	HealthAddr string `yaml:"health_addr" envconfig:"HEALTH_ADDR"`
	TicketQR   bool   `yaml:"ticket_qr" envconfig:"TICKET_QR"`
}

// Load собирает конфигурацию: .env, затем YAML-файл из CONFIG_FILE (если задан),
// затем переменные окружения поверх него
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	var cfg Config

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize проверяет обязательные поля и выставляет значения по умолчанию
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(cfg.TelegramToken) == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if strings.TrimSpace(cfg.DBDSN) == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case "":
		cfg.DBDriver = DriverPostgres
	case "sqlite3":
		cfg.DBDriver = DriverSQLite
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q; allowed: postgres, sqlite", cfg.DBDriver)
	}

	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Moscow"
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	if cfg.ActivationSchedule == "" {
		cfg.ActivationSchedule = "1 0 * * *"
	}
	if cfg.DeactivationSchedule == "" {
		cfg.DeactivationSchedule = "59 23 * * *"
	}

	cfg.StateBackend = strings.ToLower(strings.TrimSpace(cfg.StateBackend))
	switch cfg.StateBackend {
	case "":
		cfg.StateBackend = StateBackendMemory
	case StateBackendMemory:
	case StateBackendRedis:
		if cfg.RedisAddr == "" {
			cfg.RedisAddr = "localhost:6379"
		}
	default:
		return fmt.Errorf("invalid STATE_BACKEND %q; allowed: memory, redis", cfg.StateBackend)
	}

	if cfg.StateTTL < 0 {
		return fmt.Errorf("STATE_TTL must be >= 0")
	}

	return nil
}

// Location возвращает часовой пояс мероприятия
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
