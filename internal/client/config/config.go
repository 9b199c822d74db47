package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/expressdata/internal/flagx"
)

const envPrefix = "EXPRESS_"

// StorageConfig points at an S3-compatible bucket for avatar uploads.
// Uploads are disabled while Bucket is empty.
type StorageConfig struct {
	Endpoint      string `env:"ENDPOINT"`
	Region        string `env:"REGION"`
	Bucket        string `env:"BUCKET"`
	AccessKey     string `env:"ACCESS_KEY"`
	SecretKey     string `env:"SECRET_KEY"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

func (s StorageConfig) Enabled() bool { return s.Bucket != "" }

type Config struct {
	SupabaseURL       string        `env:"SUPABASE_URL"`
	SupabaseAnonKey   string        `env:"SUPABASE_ANON_KEY"`
	PaystackPublicKey string        `env:"PAYSTACK_PUBLIC_KEY"`
	Currency          string        `env:"CURRENCY"`
	Providers         []string      `env:"PROVIDERS" envSeparator:","`
	DBPath            string        `env:"DB_PATH"`
	DeviceKeyPath     string        `env:"DEVICE_KEY_PATH"`
	RecheckDelay      time.Duration `env:"RECHECK_DELAY"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"`
	CheckoutTimeout   time.Duration `env:"CHECKOUT_TIMEOUT"`
	CallbackAddr      string        `env:"CALLBACK_ADDR"`
	LogLevel          string        `env:"LOG_LEVEL"`
	LogFormat         string        `env:"LOG_FORMAT"`
	Storage           StorageConfig `envPrefix:"STORAGE_"`
}

// LoadDefaults populates c with defaults suitable for local use.
func (c *Config) LoadDefaults() {
	c.Currency = "GHS"
	c.Providers = []string{"MTN", "Telecel", "AirtelTigo"}
	c.DBPath = "storefront.db"
	c.DeviceKeyPath = "device.key"
	c.RecheckDelay = 300 * time.Millisecond
	c.RequestTimeout = 30 * time.Second
	c.CheckoutTimeout = 15 * time.Minute
	c.CallbackAddr = "127.0.0.1:0"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

var (
	ErrMissingURL      = errors.New("project URL is not configured")
	ErrMissingAnonKey  = errors.New("project anon key is not configured")
	ErrMissingPayKey   = errors.New("payment public key is not configured")
	ErrMissingProvider = errors.New("at least one network provider is required")
)

// Validate reports the first setting the client cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.SupabaseURL == "":
		return ErrMissingURL
	case c.SupabaseAnonKey == "":
		return ErrMissingAnonKey
	case c.PaystackPublicKey == "":
		return ErrMissingPayKey
	case len(c.Providers) == 0:
		return ErrMissingProvider
	}
	return nil
}

// LoadConfig builds a Config from defaults, .env, JSON, environment and
// flags, in that order. Malformed JSON or flags panic, as they can only be
// fixed by the operator.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	sources := flagx.SourceFlags(args)
	if err := loadDotEnv(sources.EnvFile); err != nil {
		return nil, err
	}

	parseJson(cfg, sources.JSONFile)

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	parseFlags(cfg, args)
	return cfg, nil
}

// loadDotEnv loads path, or ./.env when path is empty and the file exists.
func loadDotEnv(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	return godotenv.Load(path)
}

func parseEnv(cfg *Config) error {
	return env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix})
}
