package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppCfg struct {
	Env                 string `yaml:"env"`
	Port                int    `yaml:"port"`
	FrontendURL         string `yaml:"frontend_url"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int    `yaml:"idleTimeoutSeconds"`
}

// ReadTimeout, WriteTimeout and IdleTimeout expose the configured server
// timeouts as durations. Zero means no timeout.
func (a AppCfg) ReadTimeout() time.Duration  { return time.Duration(a.ReadTimeoutSeconds) * time.Second }
func (a AppCfg) WriteTimeout() time.Duration { return time.Duration(a.WriteTimeoutSeconds) * time.Second }
func (a AppCfg) IdleTimeout() time.Duration  { return time.Duration(a.IdleTimeoutSeconds) * time.Second }

type JWTCfg struct {
	Secret           string `yaml:"secret"`
	ExpireMinutes    int    `yaml:"expireMinutes"`
	CookieExpireDays int    `yaml:"cookieExpireDays"`
}

type MongoCfg struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type UserCfg struct {
	Collection string `yaml:"collection"`
}

type BrevoCfg struct {
	APIKey    string `yaml:"apiKey"`
	FromEmail string `yaml:"fromEmail"`
	FromName  string `yaml:"fromName"`
}

type TwilioCfg struct {
	AccountSID string `yaml:"accountSID"`
	AuthToken  string `yaml:"authToken"`
	From       string `yaml:"from"`
}

type SecurityCfg struct {
	OtpTTLMinutes           int `yaml:"otpTTLMinutes"`
	UnverifiedMaxAgeMinutes int `yaml:"unverifiedMaxAgeMinutes"`
	CleanupIntervalMinutes  int `yaml:"cleanupIntervalMinutes"`
}

type Config struct {
	App      AppCfg      `yaml:"app"`
	JWT      JWTCfg      `yaml:"jwt"`
	Mongo    MongoCfg    `yaml:"mongo"`
	User     UserCfg     `yaml:"user"`
	Brevo    BrevoCfg    `yaml:"brevo"`
	Twilio   TwilioCfg   `yaml:"twilio"`
	Security SecurityCfg `yaml:"security"`
}

// Load reads the yaml config file and applies env overrides. Missing
// required keys are a startup failure, never a per-request one.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}
	overrideInt := func(env string, apply func(int)) {
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				apply(n)
			}
		}
	}

	override("APP_ENV", func(v string) { cfg.App.Env = v })
	overrideInt("APP_PORT", func(n int) { cfg.App.Port = n })
	override("FRONTEND_URL", func(v string) { cfg.App.FrontendURL = v })
	override("JWT_SECRET_KEY", func(v string) { cfg.JWT.Secret = v })
	overrideInt("JWT_EXPIRE_MINUTES", func(n int) { cfg.JWT.ExpireMinutes = n })
	overrideInt("COOKIE_EXPIRE", func(n int) { cfg.JWT.CookieExpireDays = n })
	override("MONGO_URI", func(v string) { cfg.Mongo.URI = v })
	override("MONGO_DB", func(v string) { cfg.Mongo.Database = v })
	override("USER_COLLECTION", func(v string) { cfg.User.Collection = v })
	override("BREVO_API_KEY", func(v string) { cfg.Brevo.APIKey = v })
	override("BREVO_FROM_EMAIL", func(v string) { cfg.Brevo.FromEmail = v })
	override("BREVO_FROM_NAME", func(v string) { cfg.Brevo.FromName = v })
	override("TWILIO_ACCOUNT_SID", func(v string) { cfg.Twilio.AccountSID = v })
	override("TWILIO_AUTH_TOKEN", func(v string) { cfg.Twilio.AuthToken = v })
	override("TWILIO_FROM", func(v string) { cfg.Twilio.From = v })
	overrideInt("OTP_TTL_MINUTES", func(n int) { cfg.Security.OtpTTLMinutes = n })
	overrideInt("UNVERIFIED_MAX_AGE_MINUTES", func(n int) { cfg.Security.UnverifiedMaxAgeMinutes = n })
	overrideInt("CLEANUP_INTERVAL_MINUTES", func(n int) { cfg.Security.CleanupIntervalMinutes = n })

	applyDefaults(cfg)

	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET_KEY is required")
	}
	if cfg.App.FrontendURL == "" {
		return nil, errors.New("FRONTEND_URL is required")
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 2025
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "auth"
	}
	if cfg.User.Collection == "" {
		cfg.User.Collection = "users"
	}
	if cfg.JWT.ExpireMinutes == 0 {
		cfg.JWT.ExpireMinutes = 7 * 24 * 60
	}
	if cfg.JWT.CookieExpireDays == 0 {
		cfg.JWT.CookieExpireDays = 7
	}
	if cfg.Security.OtpTTLMinutes == 0 {
		cfg.Security.OtpTTLMinutes = 5
	}
	if cfg.Security.UnverifiedMaxAgeMinutes == 0 {
		cfg.Security.UnverifiedMaxAgeMinutes = 60
	}
	if cfg.Security.CleanupIntervalMinutes == 0 {
		cfg.Security.CleanupIntervalMinutes = 30
	}
}
