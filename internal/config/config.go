package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP client
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`

	// Resilience
	MaxRetries     int           `env:"MAX_RETRIES" envDefault:"3"`
	InitialBackoff time.Duration `env:"INITIAL_BACKOFF" envDefault:"100ms"`
	MaxConcurrency int           `env:"MAX_CONCURRENCY" envDefault:"50"`

	// Cache
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Observability
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`

	// Settings backend: memory, supabase or postgres
	SettingsBackend    string `env:"SETTINGS_BACKEND" envDefault:"memory"`
	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseAnonKey    string `env:"SUPABASE_ANON_KEY"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`
	DatabaseURL        string `env:"DATABASE_URL"`

	// Drafts (redis when REDIS_ADDR is set, memory otherwise)
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	DraftTTL      time.Duration `env:"DRAFT_TTL" envDefault:"24h"`

	// Pricing
	PriceTablePath        string  `env:"PRICE_TABLE_PATH"`
	DefaultPhotoUnitPrice float64 `env:"DEFAULT_PHOTO_UNIT_PRICE" envDefault:"25"`
	DefaultVideoUnitPrice float64 `env:"DEFAULT_VIDEO_UNIT_PRICE" envDefault:"150"`
	DefaultPricePerKm     float64 `env:"DEFAULT_PRICE_PER_KM" envDefault:"1.5"`

	// Distance (studio origin, São Paulo by default)
	OriginLat         float64 `env:"ORIGIN_LAT" envDefault:"-23.5505"`
	OriginLon         float64 `env:"ORIGIN_LON" envDefault:"-46.6333"`
	TortuosityFactor  float64 `env:"TORTUOSITY_FACTOR" envDefault:"1.3"`
	GeocoderURL       string  `env:"GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent string  `env:"GEOCODER_USER_AGENT" envDefault:"quote-configurator-bfa/1.0"`

	// Calendar availability (Google Calendar free/busy)
	CalendarAPIKey string `env:"CALENDAR_API_KEY"`
	CalendarID     string `env:"CALENDAR_ID"`
	CalendarURL    string `env:"CALENDAR_URL" envDefault:"https://www.googleapis.com/calendar/v3"`
	CalendarTZ     string `env:"CALENDAR_TIMEZONE" envDefault:"America/Sao_Paulo"`

	// WhatsApp
	WhatsAppAccessToken   string `env:"WHATSAPP_ACCESS_TOKEN"`
	WhatsAppPhoneNumberID string `env:"WHATSAPP_PHONE_NUMBER_ID"`
	WhatsAppAPIURL        string `env:"WHATSAPP_API_URL" envDefault:"https://graph.facebook.com/v18.0"`
	BusinessWhatsApp      string `env:"BUSINESS_WHATSAPP" envDefault:"5511999999999"`

	// Telegram owner alerts
	TelegramToken  string `env:"TELEGRAM_TOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`

	// Admin / JWT
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string        `env:"JWT_SECRET" envDefault:"bfa-default-dev-secret-change-me"`
	JWTAccessTTL      time.Duration `env:"JWT_ACCESS_TTL" envDefault:"8h"`
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch cfg.SettingsBackend {
	case "memory":
	case "supabase":
		if cfg.SupabaseURL == "" {
			return nil, fmt.Errorf("SETTINGS_BACKEND=supabase requires SUPABASE_URL")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("SETTINGS_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("unknown SETTINGS_BACKEND %q", cfg.SettingsBackend)
	}

	if cfg.TortuosityFactor < 1 {
		return nil, fmt.Errorf("TORTUOSITY_FACTOR must be >= 1, got %v", cfg.TortuosityFactor)
	}

	return &cfg, nil
}
