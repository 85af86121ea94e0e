package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	kenv "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Environment variable keys
const (
	EnvEnvironment = "ENVIRONMENT"
	EnvPort        = "PORT"
	EnvConfigPath  = "CONFIG_PATH"

	// Storage
	EnvDatabaseURL = "DATABASE_URL"
	EnvUploadDir   = "UPLOAD_DIR"
	EnvMaxUpload   = "MAX_UPLOAD_SIZE"

	// Auth Configuration
	EnvJWTSecret          = "JWT_SECRET"
	EnvJWTExpiry          = "JWT_EXPIRY"
	EnvRefreshTokenExpiry = "REFRESH_TOKEN_EXPIRY"
	EnvAllowedOrigin      = "ALLOWED_ORIGIN"

	// OAuth Providers
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvGitHubClientID      = "GITHUB_CLIENT_ID"
	EnvGitHubClientSecret  = "GITHUB_CLIENT_SECRET"
	EnvAuthCallbackBaseURL = "AUTH_CALLBACK_BASE_URL"

	// Mess menu
	EnvMenuRotationWeeks = "MENU_ROTATION_WEEKS"

	// Rate limiting
	EnvRateLimitRPS   = "RATE_LIMIT_RPS"
	EnvRateLimitBurst = "RATE_LIMIT_BURST"

	// Logging
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"

	// DefaultJWTSecret is only acceptable outside production
	DefaultJWTSecret = "change-me"
)

type ProviderConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
}

// Config holds everything read once at process start
type Config struct {
	Environment string `koanf:"environment"`
	Port        int    `koanf:"port"`

	DatabaseURL   string `koanf:"database_url"`
	UploadDir     string `koanf:"upload_dir"`
	MaxUploadSize int64  `koanf:"max_upload_size"`

	JWTSecret          string        `koanf:"jwt_secret"`
	JWTExpiry          time.Duration `koanf:"jwt_expiry"`
	RefreshTokenExpiry time.Duration `koanf:"refresh_token_expiry"`
	AllowedOrigin      string        `koanf:"allowed_origin"`

	Google              ProviderConfig `koanf:"google"`
	GitHub              ProviderConfig `koanf:"github"`
	AuthCallbackBaseURL string         `koanf:"auth_callback_base_url"`

	MenuRotationWeeks int `koanf:"menu_rotation_weeks"`

	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// Defaults returns the configuration used when nothing overrides it
func Defaults() *Config {
	return &Config{
		Environment:         EnvironmentDevelopment,
		Port:                9237,
		DatabaseURL:         "file:./internal/databases/hostel.db?_foreign_keys=on",
		UploadDir:           "./uploads",
		MaxUploadSize:       5 << 20,
		JWTSecret:           DefaultJWTSecret,
		JWTExpiry:           24 * time.Hour,
		RefreshTokenExpiry:  30 * 24 * time.Hour,
		AllowedOrigin:       "http://localhost:3000",
		AuthCallbackBaseURL: "http://localhost:9237",
		MenuRotationWeeks:   1,
		RateLimitRPS:        10,
		RateLimitBurst:      20,
		LogLevel:            "info",
		LogFormat:           "json",
	}
}

// envKeys maps environment variable names to koanf paths
var envKeys = map[string]string{
	EnvEnvironment:         "environment",
	EnvPort:                "port",
	EnvDatabaseURL:         "database_url",
	EnvUploadDir:           "upload_dir",
	EnvMaxUpload:           "max_upload_size",
	EnvJWTSecret:           "jwt_secret",
	EnvJWTExpiry:           "jwt_expiry",
	EnvRefreshTokenExpiry:  "refresh_token_expiry",
	EnvAllowedOrigin:       "allowed_origin",
	EnvGoogleClientID:      "google.client_id",
	EnvGoogleClientSecret:  "google.client_secret",
	EnvGitHubClientID:      "github.client_id",
	EnvGitHubClientSecret:  "github.client_secret",
	EnvAuthCallbackBaseURL: "auth_callback_base_url",
	EnvMenuRotationWeeks:   "menu_rotation_weeks",
	EnvRateLimitRPS:        "rate_limit_rps",
	EnvRateLimitBurst:      "rate_limit_burst",
	EnvLogLevel:            "log_level",
	EnvLogFormat:           "log_format",
}

// envTransform returns "" for variables we do not know so koanf skips them
func envTransform(key string) string {
	if path, ok := envKeys[strings.ToUpper(key)]; ok {
		return path
	}
	return ""
}

// LoadDotEnv loads a .env file into the process environment if one exists
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// Load builds the configuration from defaults, an optional YAML file and the environment
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := configFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(kenv.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configFile() string {
	if path, ok := os.LookupEnv(EnvConfigPath); ok {
		return path
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

// Validate rejects values the server cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid %s: %d", EnvPort, c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("%s is required", EnvDatabaseURL)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("%s must be positive", EnvMaxUpload)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%s is required", EnvJWTSecret)
	}
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return fmt.Errorf("%s must be changed from its default in production", EnvJWTSecret)
	}
	if c.JWTExpiry <= 0 || c.RefreshTokenExpiry <= 0 {
		return fmt.Errorf("token expiry durations must be positive")
	}
	if c.MenuRotationWeeks < 1 || c.MenuRotationWeeks > 52 {
		return fmt.Errorf("%s must be between 1 and 52, got %d", EnvMenuRotationWeeks, c.MenuRotationWeeks)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	return nil
}

// IsProduction reports whether internal error detail must be hidden from clients
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvironmentProduction)
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

/*
This project is the backend API for the hostel management system: mess menus, room bookings, complaints, lost and found and counseling appointments.
Hostel API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
