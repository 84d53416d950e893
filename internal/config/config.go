package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the server settings
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DBHost       string `mapstructure:"DB_HOST"`
	DBPort       string `mapstructure:"DB_PORT"`
	DBUser       string `mapstructure:"DB_USER"`
	DBPassword   string `mapstructure:"DB_PASSWORD"`
	DBName       string `mapstructure:"DB_NAME"`
	DBSSLMode    string `mapstructure:"DB_SSLMODE"`
	MigrationURL string `mapstructure:"MIGRATION_URL"`

	JWTSecretKey             string `mapstructure:"JWT_SECRET_KEY"`
	AccessTokenExpireMinutes int    `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	RefreshTokenExpireDays   int    `mapstructure:"REFRESH_TOKEN_EXPIRE_DAYS"`

	OTPExpireMinutes     int    `mapstructure:"OTP_EXPIRE_MINUTES"`
	OTPLength            int    `mapstructure:"OTP_LENGTH"`
	OTPRateLimit         int    `mapstructure:"OTP_RATE_LIMIT"`
	OTPRateWindowMinutes int    `mapstructure:"OTP_RATE_WINDOW_MINUTES"`
	OTPProvider          string `mapstructure:"OTP_PROVIDER"`
	OTPCleanupSchedule   string `mapstructure:"OTP_CLEANUP_SCHEDULE"`
	OTPRetentionDays     int    `mapstructure:"OTP_RETENTION_DAYS"`
	OTPWebhookURL        string `mapstructure:"OTP_WEBHOOK_URL"`

	InitialAdminPhone string `mapstructure:"INITIAL_ADMIN_PHONE"`

	UploadsDir     string  `mapstructure:"UPLOADS_DIR"`
	LogLevel       string  `mapstructure:"LOG_LEVEL"`
	LogFile        string  `mapstructure:"LOG_FILE"`
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

// ClientConfig holds the CLI client settings
type ClientConfig struct {
	APIBaseURL        string `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds int    `mapstructure:"API_TIMEOUT_SECONDS"`
	APIMaxRetries     int    `mapstructure:"API_MAX_RETRIES"`
	SessionFile       string `mapstructure:"SESSION_FILE"`
	SessionPassphrase string `mapstructure:"SESSION_PASSPHRASE"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	LogFile           string `mapstructure:"LOG_FILE"`
}

var serverDefaults = map[string]interface{}{
	"SERVER_PORT":                 "8000",
	"DATABASE_URL":                "",
	"DB_HOST":                     "",
	"DB_PORT":                     "5432",
	"DB_USER":                     "",
	"DB_PASSWORD":                 "",
	"DB_NAME":                     "",
	"DB_SSLMODE":                  "disable",
	"MIGRATION_URL":               "file://migrations",
	"JWT_SECRET_KEY":              "",
	"ACCESS_TOKEN_EXPIRE_MINUTES": 30,
	"REFRESH_TOKEN_EXPIRE_DAYS":   30,
	"OTP_EXPIRE_MINUTES":          5,
	"OTP_LENGTH":                  6,
	"OTP_RATE_LIMIT":              3,
	"OTP_RATE_WINDOW_MINUTES":     5,
	"OTP_PROVIDER":                "console",
	"OTP_CLEANUP_SCHEDULE":        "@every 1h",
	"OTP_RETENTION_DAYS":          7,
	"OTP_WEBHOOK_URL":             "",
	"INITIAL_ADMIN_PHONE":         "",
	"UPLOADS_DIR":                 "uploads",
	"LOG_LEVEL":                   "info",
	"LOG_FILE":                    "",
	"RATE_LIMIT_RPS":              1.0,
	"RATE_LIMIT_BURST":            5,
}

var clientDefaults = map[string]interface{}{
	"API_BASE_URL":        "http://localhost:8000/api/v1",
	"API_TIMEOUT_SECONDS": 30,
	"API_MAX_RETRIES":     2,
	"SESSION_FILE":        "",
	"SESSION_PASSPHRASE":  "",
	"LOG_LEVEL":           "warn",
	"LOG_FILE":            "",
}

// LoadConfig reads app.env and .env from path, then the process environment
func LoadConfig(path string) (*Config, error) {
	v, err := newViper(path, serverDefaults)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY not set in environment")
	}
	if cfg.DatabaseURL == "" && (cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "") {
		return nil, errors.New("database environment variables not set (DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}
	return cfg, nil
}

// LoadClientConfig reads the client settings the same way LoadConfig does
func LoadClientConfig(path string) (*ClientConfig, error) {
	v, err := newViper(path, clientDefaults)
	if err != nil {
		return nil, err
	}

	cfg := &ClientConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode client config: %w", err)
	}
	if cfg.SessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.SessionFile = filepath.Join(home, ".contractor_connect", "session")
	}
	return cfg, nil
}

func newViper(path string, defaults map[string]interface{}) (*viper.Viper, error) {
	// A missing .env is fine, the environment may already be populated
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// DSN returns a postgres URL usable by both pgxpool and golang-migrate
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

func (c *Config) OTPTTL() time.Duration {
	return time.Duration(c.OTPExpireMinutes) * time.Minute
}

func (c *Config) OTPRateWindow() time.Duration {
	return time.Duration(c.OTPRateWindowMinutes) * time.Minute
}

func (c *Config) OTPRetention() time.Duration {
	return time.Duration(c.OTPRetentionDays) * 24 * time.Hour
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour
}

// Timeout is the per-call deadline applied by the HTTP gateway
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}
