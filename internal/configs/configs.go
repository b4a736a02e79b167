/*
Package configs is responsible for loading and parsing the application's configuration settings.

Values come from operating system environment variables, optionally seeded from a
.env file in the working directory. Environment variables always win over the file.
*/
package configs

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvDevelopment is the environment name that relaxes cookie and CORS restrictions.
	EnvDevelopment = "development"

	// DefaultCookieName is the session cookie name used when EPT_COOKIE_NAME is unset.
	DefaultCookieName = "ept.token"
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string `mapstructure:"ENVIRONMENT"`
	Port        int    `mapstructure:"PORT"`

	// Backend Settings
	BackendURL     string        `mapstructure:"BACKEND_URL"`
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`

	// Session Settings
	CookieName   string `mapstructure:"EPT_COOKIE_NAME"`
	CookieMaxAge int    `mapstructure:"COOKIE_MAX_AGE"`

	// Security Settings
	AllowedOrigins []string `mapstructure:"-"`
	LoginRate      float64  `mapstructure:"LOGIN_RATE"`
	LoginBurst     int      `mapstructure:"LOGIN_BURST"`

	// Observability Settings
	LogFile      string `mapstructure:"LOG_FILE"`
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// IsDevelopment reports whether the application runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// SecureCookies reports whether session cookies must carry the Secure attribute.
func (c *AppConfig) SecureCookies() bool {
	return !c.IsDevelopment()
}

// LoadConfig reads .env (if present) and the environment, applies defaults and validates the result.
func LoadConfig() (*AppConfig, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", EnvDevelopment)
	v.SetDefault("PORT", 3000)
	v.SetDefault("BACKEND_URL", "")
	v.SetDefault("BACKEND_TIMEOUT", "15s")
	v.SetDefault("EPT_COOKIE_NAME", DefaultCookieName)
	v.SetDefault("COOKIE_MAX_AGE", 3600)
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOGIN_RATE", 0.2)
	v.SetDefault("LOGIN_BURST", 5)
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg.AllowedOrigins = splitOrigins(v.GetString("ALLOWED_ORIGINS"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Environment == "" {
		c.Environment = EnvDevelopment
	}

	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", c.Port, 1024, 65535)
	}

	if c.BackendURL == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("BACKEND_URL environment variable is required in %s environment", c.Environment)
		}
		c.BackendURL = "http://localhost:8000"
	}

	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid BACKEND_URL %q: must be an absolute http(s) URL", c.BackendURL)
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")

	if c.BackendTimeout <= 0 {
		return fmt.Errorf("invalid BACKEND_TIMEOUT %s: must be positive", c.BackendTimeout)
	}

	if strings.TrimSpace(c.CookieName) == "" {
		c.CookieName = DefaultCookieName
	}

	if c.CookieMaxAge <= 0 {
		return fmt.Errorf("invalid COOKIE_MAX_AGE %d: must be a positive number of seconds", c.CookieMaxAge)
	}

	if c.LoginRate <= 0 || c.LoginBurst <= 0 {
		return fmt.Errorf("LOGIN_RATE and LOGIN_BURST must be positive (got %v, %d)", c.LoginRate, c.LoginBurst)
	}

	return nil
}

func splitOrigins(raw string) []string {
	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
