package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
// Пример: BOOKING_DATABASE_PASSWORD, BOOKING_STRIPE_SECRET_KEY
// У полей нет тега envconfig: с ним envconfig читает и переменную без префикса (USER, PATH)
const EnvPrefix = "BOOKING"

// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server" envconfig:"SERVER"`
	Database DatabaseConfig `toml:"database" envconfig:"DATABASE"`
	Logs     LogsConfig     `toml:"logs" envconfig:"LOGS"`
	Metrics  MetricsConfig  `toml:"metrics" envconfig:"METRICS"`
	Auth     AuthConfig     `toml:"auth" envconfig:"AUTH"`
	Stripe   StripeConfig   `toml:"stripe" envconfig:"STRIPE"`
	Booking  BookingConfig  `toml:"booking" envconfig:"BOOKING"`
	Redis    RedisConfig    `toml:"redis" envconfig:"REDIS"`
	Events   EventsConfig   `toml:"events" envconfig:"EVENTS"`
	Notify   NotifyConfig   `toml:"notify" envconfig:"NOTIFY"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения для golang-migrate
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// AuthConfig проверка JWT от внешнего identity provider (HS256)
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret" split_words:"true"`
	Issuer    string `toml:"issuer" split_words:"true"`
	AdminRole string `toml:"admin_role" split_words:"true"`
}

// StripeConfig настройки платежного шлюза
type StripeConfig struct {
	SecretKey string `toml:"secret_key" split_words:"true"`
	Currency  string `toml:"currency" split_words:"true"`
	Timeout   int    `toml:"timeout" split_words:"true"` // секунды
	// APIURL переопределяет адрес API (например, stripe-mock в тестовом окружении)
	APIURL string `toml:"api_url" split_words:"true"`
}

// BookingConfig правила календаря и платежа
type BookingConfig struct {
	LeadTimeHours int    `toml:"lead_time_hours" split_words:"true"`
	CutoffHour    int    `toml:"cutoff_hour" split_words:"true"`
	BufferSlots   int    `toml:"buffer_slots" split_words:"true"`
	AdvanceDays   int    `toml:"advance_days" split_words:"true"` // 0 = без ограничения
	Location      string `toml:"location" split_words:"true"`
	DepositCents  int64  `toml:"deposit_cents" split_words:"true"`
}

// RedisConfig хранилище счетчиков rate limit
type RedisConfig struct {
	Enabled            bool   `toml:"enabled" split_words:"true"`
	Addr               string `toml:"addr" split_words:"true"`
	Password           string `toml:"password" split_words:"true"`
	DB                 int    `toml:"db" split_words:"true"`
	RateLimitPerMinute int    `toml:"rate_limit_per_minute" split_words:"true"`
}

// EventsConfig публикация событий бронирования в RabbitMQ
type EventsConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	URL      string `toml:"url" split_words:"true"`
	Exchange string `toml:"exchange" split_words:"true"`
}

// NotifyConfig e-mail уведомления службы поддержки (SendGrid)
type NotifyConfig struct {
	Enabled      bool   `toml:"enabled" split_words:"true"`
	SendGridKey  string `toml:"sendgrid_key" split_words:"true"`
	FromEmail    string `toml:"from_email" split_words:"true"`
	FromName     string `toml:"from_name" split_words:"true"`
	SupportInbox string `toml:"support_inbox" split_words:"true"`
}

// Load читает конфигурацию
// Порядок: значения по умолчанию -> config.toml -> .env -> переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	// .env опционален
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "homeservice-booking",
		},
		Auth: AuthConfig{
			AdminRole: "admin",
		},
		Stripe: StripeConfig{
			Currency: "usd",
			Timeout:  10,
		},
		Booking: BookingConfig{
			LeadTimeHours: 3,
			CutoffHour:    17,
			BufferSlots:   2,
			AdvanceDays:   60,
			Location:      "America/Los_Angeles",
			DepositCents:  5000,
		},
		Redis: RedisConfig{
			Addr:               "localhost:6379",
			RateLimitPerMinute: 10,
		},
		Events: EventsConfig{
			Exchange: "booking.events",
		},
		Notify: NotifyConfig{
			FromName: "HomeService Support",
		},
	}
}

// Validate проверяет обязательные поля и допустимые диапазоны
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("%w: database host, dbname and user are required", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}
	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("%w: stripe.secret_key is required", ErrInvalidConfig)
	}
	if c.Stripe.Timeout <= 0 {
		return fmt.Errorf("%w: stripe.timeout must be positive", ErrInvalidConfig)
	}
	if c.Booking.LeadTimeHours < 0 || c.Booking.BufferSlots < 0 {
		return fmt.Errorf("%w: booking.lead_time_hours and booking.buffer_slots must not be negative", ErrInvalidConfig)
	}
	if c.Booking.CutoffHour < 0 || c.Booking.CutoffHour > 24 {
		return fmt.Errorf("%w: booking.cutoff_hour=%d out of range", ErrInvalidConfig, c.Booking.CutoffHour)
	}
	if c.Booking.AdvanceDays < 0 {
		return fmt.Errorf("%w: booking.advance_days must not be negative", ErrInvalidConfig)
	}
	if c.Booking.DepositCents <= 0 {
		return fmt.Errorf("%w: booking.deposit_cents must be positive", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Booking.Location); err != nil {
		return fmt.Errorf("%w: booking.location: %v", ErrInvalidConfig, err)
	}
	if c.Redis.Enabled && c.Redis.RateLimitPerMinute <= 0 {
		return fmt.Errorf("%w: redis.rate_limit_per_minute must be positive", ErrInvalidConfig)
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("%w: events.url is required when events are enabled", ErrInvalidConfig)
	}
	if c.Notify.Enabled && (c.Notify.SendGridKey == "" || c.Notify.FromEmail == "" || c.Notify.SupportInbox == "") {
		return fmt.Errorf("%w: notify requires sendgrid_key, from_email and support_inbox", ErrInvalidConfig)
	}
	return nil
}

// BookingLocation часовой пояс бизнеса (проверен в Validate)
func (c *Config) BookingLocation() *time.Location {
	loc, err := time.LoadLocation(c.Booking.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}
