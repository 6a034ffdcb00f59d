package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "LAWDESK_"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig      `yaml:"server" envPrefix:"SERVER_"`
	Metrics      MetricsConfig     `yaml:"metrics" envPrefix:"METRICS_"`
	Database     DatabaseConfig    `yaml:"database" envPrefix:"DB_"`
	JWT          JWTConfig         `yaml:"jwt" envPrefix:"JWT_"`
	Email        EmailConfig       `yaml:"email" envPrefix:"EMAIL_"`
	CORS         CORSConfig        `yaml:"cors" envPrefix:"CORS_"`
	Log          LogConfig         `yaml:"log" envPrefix:"LOG_"`
	Scheduler    SchedulerConfig   `yaml:"scheduler" envPrefix:"SCHEDULER_"`
	JoinRequests JoinRequestConfig `yaml:"join_requests" envPrefix:"JOIN_REQUESTS_"`
	Cache        CacheConfig       `yaml:"cache" envPrefix:"CACHE_"`
}

// ServerConfig contains REST server settings
type ServerConfig struct {
	Host            string        `yaml:"host" env:"HOST"`
	Port            int           `yaml:"port" env:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// MetricsConfig contains the Prometheus listener settings.
// An empty ListenAddr disables the metrics server.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"LISTEN_ADDR"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host        string `yaml:"host" env:"HOST"`
	Port        int    `yaml:"port" env:"PORT"`
	User        string `yaml:"user" env:"USER"`
	Password    string `yaml:"password" env:"PASSWORD"`
	Database    string `yaml:"database" env:"NAME"`
	SSLMode     string `yaml:"ssl_mode" env:"SSL_MODE"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"AUTO_MIGRATE"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret" env:"SECRET"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes" env:"ACCESS_TOKEN_EXPIRY_MINUTES"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes" env:"REFRESH_TOKEN_EXPIRY_MINUTES"`
}

// EmailConfig contains outgoing mail settings
type EmailConfig struct {
	Provider  string `yaml:"provider" env:"PROVIDER"` // "sendgrid", "smtp" or "log"
	APIKey    string `yaml:"api_key" env:"API_KEY"`
	FromEmail string `yaml:"from_email" env:"FROM_EMAIL"`
	FromName  string `yaml:"from_name" env:"FROM_NAME"`

	SMTP SMTPConfig `yaml:"smtp" envPrefix:"SMTP_"`
}

// SMTPConfig is used by the smtp email provider.
type SMTPConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
}

// CORSConfig lists the front-end origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" env:"FORMAT"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	Enabled              bool   `yaml:"enabled" env:"ENABLED"`
	PendingRequestDigest string `yaml:"pending_request_digest" env:"PENDING_REQUEST_DIGEST"`
}

// JoinRequestConfig contains membership workflow settings
type JoinRequestConfig struct {
	// DigestAfter is how long a request must stay pending before it is
	// included in the owner reminder digest.
	DigestAfter time.Duration `yaml:"digest_after" env:"DIGEST_AFTER"`
	// DefaultRole is granted when an owner approves without naming a role.
	DefaultRole string `yaml:"default_role" env:"DEFAULT_ROLE"`
	// MaxPageSize caps the limit accepted when listing requests.
	MaxPageSize int `yaml:"max_page_size" env:"MAX_PAGE_SIZE"`
}

// CacheConfig sizes the in-process office lookup cache.
// A zero OfficeSize disables it.
type CacheConfig struct {
	OfficeSize int           `yaml:"office_size" env:"OFFICE_SIZE"`
	OfficeTTL  time.Duration `yaml:"office_ttl" env:"OFFICE_TTL"`
}

// Load reads configuration from a YAML file, overlays environment variables
// and applies defaults. An empty path skips the file.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 7 * 24 * 60
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}
	if c.Email.Provider == "" {
		c.Email.Provider = "log"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Scheduler.PendingRequestDigest == "" {
		c.Scheduler.PendingRequestDigest = "0 0 9 * * *" // Daily at 9 AM UTC
	}
	if c.JoinRequests.DigestAfter == 0 {
		c.JoinRequests.DigestAfter = 24 * time.Hour
	}
	if c.JoinRequests.DefaultRole == "" {
		c.JoinRequests.DefaultRole = "lawyer"
	}
	if c.JoinRequests.MaxPageSize == 0 {
		c.JoinRequests.MaxPageSize = 100
	}
	if c.Cache.OfficeTTL == 0 {
		c.Cache.OfficeTTL = 5 * time.Minute
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return errors.New("database host is required")
	}
	if c.Database.User == "" {
		return errors.New("database user is required")
	}
	if c.Database.Database == "" {
		return errors.New("database name is required")
	}

	if c.JWT.Secret == "" {
		return errors.New("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret must be at least 32 characters")
	}

	switch c.Email.Provider {
	case "log":
	case "sendgrid":
		if c.Email.APIKey == "" {
			return errors.New("email api key is required for the sendgrid provider")
		}
		if c.Email.FromEmail == "" {
			return errors.New("email sender address is required for the sendgrid provider")
		}
	case "smtp":
		if c.Email.SMTP.Host == "" {
			return errors.New("smtp host is required for the smtp provider")
		}
		if c.Email.FromEmail == "" {
			return errors.New("email sender address is required for the smtp provider")
		}
	default:
		return fmt.Errorf("unsupported email provider: %q", c.Email.Provider)
	}

	switch c.JoinRequests.DefaultRole {
	case "lawyer", "expert", "admin":
	default:
		return fmt.Errorf("invalid default join request role: %q", c.JoinRequests.DefaultRole)
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the REST server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AccessTokenTTL returns the access token lifetime
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTokenExpiry) * time.Minute
}
