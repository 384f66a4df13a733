package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the team service
type Config struct {
	Server          ServerConfig          `yaml:"server"`
	Database        DatabaseConfig        `yaml:"database"`
	Redis           RedisConfig           `yaml:"redis"`
	JWT             JWTConfig             `yaml:"jwt"`
	Logger          LoggerConfig          `yaml:"logger"`
	NotificationAPI NotificationAPIConfig `yaml:"notification_api"`
	UserAPI         UserAPIConfig         `yaml:"user_api"`
	Invite          InviteConfig          `yaml:"invite"`
	Outbox          OutboxConfig          `yaml:"outbox"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// GetDSN returns DATABASE_URL style value when set, otherwise builds a key/value DSN
func (d DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TeamTTL  time.Duration `yaml:"team_ttl"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type NotificationAPIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	InternalAPIKey string        `yaml:"internal_api_key"`
	Timeout        time.Duration `yaml:"timeout"`
}

type UserAPIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type InviteConfig struct {
	// JoinLinkBaseURL prefixes /{hackathonId}/join-team/{teamId} in invite notifications.
	JoinLinkBaseURL      string `yaml:"join_link_base_url"`
	RequireVerifiedEmail bool   `yaml:"require_verified_email"`
}

type OutboxConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Schedule     string        `yaml:"schedule"`
	BatchSize    int           `yaml:"batch_size"`
	MaxAttempts  int           `yaml:"max_attempts"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// Default returns the configuration used when no file or env override is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "debug",
			BasePath:        "/api",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "hackathon_team",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			TeamTTL: 5 * time.Minute,
		},
		Logger: LoggerConfig{Level: "info"},
		NotificationAPI: NotificationAPIConfig{
			Timeout: 5 * time.Second,
		},
		UserAPI: UserAPIConfig{
			Timeout: 5 * time.Second,
		},
		Invite: InviteConfig{
			JoinLinkBaseURL:      "http://localhost:3000",
			RequireVerifiedEmail: true,
		},
		Outbox: OutboxConfig{
			Enabled:      true,
			Schedule:     "@every 30s",
			BatchSize:    50,
			MaxAttempts:  5,
			RetryBackoff: time.Minute,
		},
	}
}

// Load reads the yaml file at path (if it exists) over the defaults and applies env overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Mode, "SERVER_MODE")
	setString(&c.Server.BasePath, "SERVER_BASE_PATH")
	setString(&c.Logger.Level, "LOG_LEVEL")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")

	setString(&c.Redis.URL, "REDIS_URL")
	setString(&c.Redis.Password, "REDIS_PASSWORD")

	setString(&c.JWT.Secret, "JWT_SECRET")

	setString(&c.NotificationAPI.BaseURL, "NOTIFICATION_API_URL")
	setString(&c.NotificationAPI.InternalAPIKey, "INTERNAL_API_KEY")
	setString(&c.UserAPI.BaseURL, "USER_API_URL")

	setString(&c.Invite.JoinLinkBaseURL, "JOIN_LINK_BASE_URL")
	setBool(&c.Invite.RequireVerifiedEmail, "INVITE_REQUIRE_VERIFIED_EMAIL")

	setString(&c.Outbox.Schedule, "OUTBOX_SCHEDULE")
}

// Validate checks values that would make the service misbehave at runtime
func (c *Config) Validate() error {
	if c.Server.Mode == "release" && strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("jwt secret is required in release mode")
	}
	if c.Outbox.BatchSize <= 0 {
		return fmt.Errorf("outbox batch_size must be positive, got %d", c.Outbox.BatchSize)
	}
	if c.Outbox.MaxAttempts <= 0 {
		return fmt.Errorf("outbox max_attempts must be positive, got %d", c.Outbox.MaxAttempts)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
