package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/expressdata/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Absent fields
// leave the current value untouched.
type JsonConfig struct {
	SupabaseURL       string          `json:"supabase_url"`
	SupabaseAnonKey   string          `json:"supabase_anon_key"`
	PaystackPublicKey string          `json:"paystack_public_key"`
	Currency          string          `json:"currency"`
	Providers         []string        `json:"providers"`
	DBPath            string          `json:"db_path"`
	DeviceKeyPath     string          `json:"device_key_path"`
	RecheckDelay      *timex.Duration `json:"recheck_delay"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	CheckoutTimeout   *timex.Duration `json:"checkout_timeout"`
	CallbackAddr      string          `json:"callback_addr"`
	LogLevel          string          `json:"log_level"`
	LogFormat         string          `json:"log_format"`
	Storage           *struct {
		Endpoint      string `json:"endpoint"`
		Region        string `json:"region"`
		Bucket        string `json:"bucket"`
		AccessKey     string `json:"access_key"`
		SecretKey     string `json:"secret_key"`
		PublicBaseURL string `json:"public_base_url"`
	} `json:"storage"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with the JSON file at path. An empty path is a
// no-op; read or decode errors panic.
func parseJson(cfg *Config, path string) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.SupabaseURL, jc.SupabaseURL)
	setString(&cfg.SupabaseAnonKey, jc.SupabaseAnonKey)
	setString(&cfg.PaystackPublicKey, jc.PaystackPublicKey)
	setString(&cfg.Currency, jc.Currency)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.DeviceKeyPath, jc.DeviceKeyPath)
	setString(&cfg.CallbackAddr, jc.CallbackAddr)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if len(jc.Providers) > 0 {
		cfg.Providers = jc.Providers
	}
	if jc.RecheckDelay != nil {
		cfg.RecheckDelay = jc.RecheckDelay.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.CheckoutTimeout != nil {
		cfg.CheckoutTimeout = jc.CheckoutTimeout.Duration
	}
	if s := jc.Storage; s != nil {
		setString(&cfg.Storage.Endpoint, s.Endpoint)
		setString(&cfg.Storage.Region, s.Region)
		setString(&cfg.Storage.Bucket, s.Bucket)
		setString(&cfg.Storage.AccessKey, s.AccessKey)
		setString(&cfg.Storage.SecretKey, s.SecretKey)
		setString(&cfg.Storage.PublicBaseURL, s.PublicBaseURL)
	}
}
