package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken  string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN          string `mapstructure:"DB_DSN"`
	Environment    string `mapstructure:"ENV"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeCurrency      string `mapstructure:"STRIPE_CURRENCY"`
	WebhookAddr         string `mapstructure:"WEBHOOK_ADDR"`
	PublicURL           string `mapstructure:"PUBLIC_URL"`

	SlotPrice            int           `mapstructure:"SLOT_PRICE"`
	BookingWindowDays    int           `mapstructure:"BOOKING_WINDOW_DAYS"`
	AvailabilityTimeout  time.Duration `mapstructure:"AVAILABILITY_TIMEOUT"`
	AvailabilityCacheTTL time.Duration `mapstructure:"AVAILABILITY_CACHE_TTL"`
	Timezone             string        `mapstructure:"TIMEZONE"`
	Location             *time.Location

	CallbackRatePerSecond float64 `mapstructure:"CALLBACK_RATE"`
	CallbackBurst         int     `mapstructure:"CALLBACK_BURST"`

	Venue Venue
}

// Venue describes the turf shown in /venue
type Venue struct {
	Name      string
	Address   string
	MapURL    string
	Amenities []string
}

func Load() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}

	log.Printf("Config loaded (env=%s, tz=%s)\n", cfg.Environment, cfg.Timezone)
	return cfg, nil
}

// FromEnv builds the config from a getenv function, applying defaults
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		TelegramToken:       getenv("TELEGRAM_TOKEN"),
		DBDSN:               getenv("DB_DSN"),
		Environment:         env("ENV", "development"),
		LogLevel:            strings.ToLower(getenv("LOG_LEVEL")),
		MigrationsPath:      env("MIGRATIONS_PATH", "migrations"),
		RedisAddr:           getenv("REDIS_ADDR"),
		RedisPassword:       getenv("REDIS_PASSWORD"),
		StripeSecretKey:     getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: getenv("STRIPE_WEBHOOK_SECRET"),
		StripeCurrency:      strings.ToLower(env("STRIPE_CURRENCY", "inr")),
		WebhookAddr:         env("WEBHOOK_ADDR", ":8080"),
		PublicURL:           strings.TrimRight(getenv("PUBLIC_URL"), "/"),
		Timezone:            env("TIMEZONE", "Asia/Kolkata"),
		Venue: Venue{
			Name:      env("VENUE_NAME", "Jai Hanuman Turf"),
			Address:   env("VENUE_ADDRESS", "Plot 12, Ring Road, Nagpur, Maharashtra"),
			MapURL:    getenv("VENUE_MAP_URL"),
			Amenities: splitList(env("VENUE_AMENITIES", "Floodlights,Parking,Drinking water,Changing room,First aid")),
		},
	}

	var err error
	if cfg.RedisDB, err = intVar(getenv, "REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SlotPrice, err = intVar(getenv, "SLOT_PRICE", 900); err != nil {
		return nil, err
	}
	if cfg.BookingWindowDays, err = intVar(getenv, "BOOKING_WINDOW_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.CallbackBurst, err = intVar(getenv, "CALLBACK_BURST", 10); err != nil {
		return nil, err
	}
	if cfg.AvailabilityTimeout, err = durationVar(getenv, "AVAILABILITY_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.AvailabilityCacheTTL, err = durationVar(getenv, "AVAILABILITY_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}

	cfg.CallbackRatePerSecond = 5
	if v := getenv("CALLBACK_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("CALLBACK_RATE must be a positive number, got %q", v)
		}
		cfg.CallbackRatePerSecond = rate
	}

	cfg.Location, err = time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}
	if c.SlotPrice <= 0 {
		return fmt.Errorf("SLOT_PRICE must be positive")
	}
	if c.BookingWindowDays <= 0 {
		return fmt.Errorf("BOOKING_WINDOW_DAYS must be positive")
	}
	if c.StripeSecretKey != "" && c.PublicURL == "" {
		return fmt.Errorf("PUBLIC_URL is required when STRIPE_SECRET_KEY is set")
	}
	return nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// StripeEnabled reports whether wallet top-ups are available
func (c *Config) StripeEnabled() bool {
	return c.StripeSecretKey != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func durationVar(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration, got %q", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
