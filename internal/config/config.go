// Package config загружает настройки сервиса из TOML файла и переменных окружения
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

// EnvPrefix префикс переменных окружения, переопределяющих файл
const EnvPrefix = "COSTUME_"

type Config struct {
	Server   ServerConfig   `toml:"server" envPrefix:"SERVER_"`
	Database DatabaseConfig `toml:"database" envPrefix:"DB_"`
	Logs     LogsConfig     `toml:"logs" envPrefix:"LOG_"`
	Metrics  MetricsConfig  `toml:"metrics" envPrefix:"METRICS_"`
	Booking  BookingConfig  `toml:"booking" envPrefix:"BOOKING_"`
	Redis    RedisConfig    `toml:"redis" envPrefix:"REDIS_"`
	Kafka    KafkaConfig    `toml:"kafka" envPrefix:"KAFKA_"`
	Auth     AuthConfig     `toml:"auth" envPrefix:"AUTH_"`
}

type ServerConfig struct {
	HTTPPort        int           `toml:"http_port" env:"HTTP_PORT"`
	ReadTimeout     time.Duration `toml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `toml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `toml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type DatabaseConfig struct {
	Host            string        `toml:"host" env:"HOST"`
	Port            int           `toml:"port" env:"PORT"`
	User            string        `toml:"user" env:"USER"`
	Password        string        `toml:"password" env:"PASSWORD"`
	DBName          string        `toml:"dbname" env:"NAME"`
	SSLMode         string        `toml:"sslmode" env:"SSLMODE"`
	MaxOpenConns    int           `toml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `toml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	ApplyMigrations bool          `toml:"apply_migrations" env:"APPLY_MIGRATIONS"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file" env:"FILE"`
	Level string `toml:"level" env:"LEVEL"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"ENABLED"`
	Path        string `toml:"path" env:"PATH"`
	ServiceName string `toml:"service_name" env:"SERVICE_NAME"`
}

type BookingConfig struct {
	// CapacityPolicy single или stock
	CapacityPolicy string        `toml:"capacity_policy" env:"CAPACITY_POLICY"`
	Timezone       string        `toml:"timezone" env:"TIMEZONE"`
	LockWait       time.Duration `toml:"lock_wait" env:"LOCK_WAIT"`
	TxMaxRetries   int           `toml:"tx_max_retries" env:"TX_MAX_RETRIES"`
	TxRetryDelay   time.Duration `toml:"tx_retry_delay" env:"TX_RETRY_DELAY"`
}

// Policy разобранная политика вместимости
func (c BookingConfig) Policy() domain.CapacityPolicy {
	policy, err := domain.ParseCapacityPolicy(c.CapacityPolicy)
	if err != nil {
		return domain.PolicySingle
	}
	return policy
}

// Location часовой пояс, в котором считается "сегодня"
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

type RedisConfig struct {
	Enabled     bool          `toml:"enabled" env:"ENABLED"`
	Addr        string        `toml:"addr" env:"ADDR"`
	Password    string        `toml:"password" env:"PASSWORD"`
	DB          int           `toml:"db" env:"DB"`
	CacheTTL    time.Duration `toml:"cache_ttl" env:"CACHE_TTL"`
	LockEnabled bool          `toml:"lock_enabled" env:"LOCK_ENABLED"`
	LockTTL     time.Duration `toml:"lock_ttl" env:"LOCK_TTL"`
}

type KafkaConfig struct {
	Enabled      bool          `toml:"enabled" env:"ENABLED"`
	Brokers      []string      `toml:"brokers" env:"BROKERS" envSeparator:","`
	Topic        string        `toml:"topic" env:"TOPIC"`
	WriteTimeout time.Duration `toml:"write_timeout" env:"WRITE_TIMEOUT"`
}

type AuthConfig struct {
	// AdminIDs Telegram ID администраторов
	AdminIDs []int64 `toml:"admin_ids" env:"ADMIN_IDS" envSeparator:","`
}

// Default конфигурация для локального запуска
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "costume_rental",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ApplyMigrations: true,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "costume-rental",
		},
		Booking: BookingConfig{
			CapacityPolicy: string(domain.PolicySingle),
			Timezone:       "Europe/Moscow",
			LockWait:       3 * time.Second,
			TxMaxRetries:   3,
			TxRetryDelay:   20 * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			CacheTTL: 5 * time.Minute,
			LockTTL:  10 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic:        "costume-rental.events",
			WriteTimeout: 5 * time.Second,
		},
	}
}

// Load читает файл path поверх значений по умолчанию, затем применяет переменные окружения
// Отсутствующий файл не ошибка: сервис можно настроить одними переменными
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Sprintf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		errs = append(errs, "database.host and database.dbname are required")
	}
	if _, err := domain.ParseCapacityPolicy(c.Booking.CapacityPolicy); err != nil {
		errs = append(errs, "booking."+err.Error())
	}
	if _, err := c.Booking.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("booking.timezone: %v", err))
	}
	if c.Booking.LockWait <= 0 {
		errs = append(errs, "booking.lock_wait must be positive")
	}
	if c.Booking.TxMaxRetries < 0 {
		errs = append(errs, "booking.tx_max_retries must not be negative")
	}
	if c.Redis.Enabled || c.Redis.LockEnabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis.addr is required when redis is enabled")
		}
		if c.Redis.LockEnabled && c.Redis.LockTTL <= 0 {
			errs = append(errs, "redis.lock_ttl must be positive")
		}
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		errs = append(errs, "kafka.brokers and kafka.topic are required when kafka is enabled")
	}
	for _, id := range c.Auth.AdminIDs {
		if id <= 0 {
			errs = append(errs, fmt.Sprintf("auth.admin_ids contains invalid id %d", id))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
