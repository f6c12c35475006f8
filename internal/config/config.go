package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	JWT           JWTConfig           `yaml:"jwt"`
	Log           LogConfig           `yaml:"log"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Jobs          JobsConfig          `yaml:"jobs"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
}

// ServerConfig contains the HTTP API and ops gRPC listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	OpsPort  int    `yaml:"ops_port"`
	Shutdown int    `yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_open_conns"`
}

// JWTConfig contains the settings needed to verify access tokens issued by the identity service
type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// NotificationsConfig sizes the dispatcher and enables the optional delivery sinks
type NotificationsConfig struct {
	Workers          int         `yaml:"workers"`
	QueueSize        int         `yaml:"queue_size"`
	MaxRetries       int         `yaml:"max_retries"`
	RetryBackoffMS   int         `yaml:"retry_backoff_ms"`
	JobTimeoutSecond int         `yaml:"job_timeout_seconds"`
	RatePerSecond    float64     `yaml:"rate_per_second"`
	Burst            int         `yaml:"burst"`
	Email            EmailConfig `yaml:"email"`
	Push             PushConfig  `yaml:"push"`
}

// EmailConfig enables the SendGrid sink when APIKey is set
type EmailConfig struct {
	APIKey    string `yaml:"sendgrid_api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// PushConfig enables the FCM sink when CredentialsFile is set
type PushConfig struct {
	CredentialsFile string `yaml:"firebase_credentials_file"`
}

// SchedulerConfig contains cron schedule settings (six fields, seconds first)
type SchedulerConfig struct {
	RemindPendingJoinRequests string `yaml:"remind_pending_join_requests"`
	PurgeReadNotifications    string `yaml:"purge_read_notifications"`
}

// JobsConfig contains thresholds used by the background jobs
type JobsConfig struct {
	PendingReminderAgeHours int `yaml:"pending_reminder_age_hours"`
	InboxRetentionDays      int `yaml:"inbox_retention_days"`
}

// RateLimitConfig bounds requests per client IP on the HTTP API
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("SERVER_OPS_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.OpsPort)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Notification sinks
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notifications.Email.APIKey = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Notifications.Push.CredentialsFile = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.OpsPort == 0 {
		c.Server.OpsPort = c.Server.Port + 1
	}
	if c.Server.OpsPort < 0 || c.Server.OpsPort > 65535 || c.Server.OpsPort == c.Server.Port {
		return fmt.Errorf("invalid ops port: %d", c.Server.OpsPort)
	}
	if c.Server.Shutdown <= 0 {
		c.Server.Shutdown = 15
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 20
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Notification sinks
	if c.Notifications.Email.APIKey != "" && c.Notifications.Email.FromEmail == "" {
		return fmt.Errorf("notifications.email.from_email is required when SendGrid is enabled")
	}
	if c.Notifications.Workers <= 0 {
		c.Notifications.Workers = 4
	}
	if c.Notifications.QueueSize <= 0 {
		c.Notifications.QueueSize = 256
	}
	if c.Notifications.MaxRetries < 0 {
		c.Notifications.MaxRetries = 0
	}

	// Scheduler defaults
	if c.Scheduler.RemindPendingJoinRequests == "" {
		c.Scheduler.RemindPendingJoinRequests = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.PurgeReadNotifications == "" {
		c.Scheduler.PurgeReadNotifications = "0 30 3 * * *" // 3:30 AM UTC
	}

	// Job defaults
	if c.Jobs.PendingReminderAgeHours <= 0 {
		c.Jobs.PendingReminderAgeHours = 72
	}
	if c.Jobs.InboxRetentionDays <= 0 {
		c.Jobs.InboxRetentionDays = 90
	}

	// Rate limit defaults
	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = 20
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 40
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

// GetServerAddress returns the HTTP API address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetOpsAddress returns the ops gRPC (health) address
func (c *Config) GetOpsAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.OpsPort)
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.Shutdown) * time.Second
}

func (c *Config) PendingReminderAge() time.Duration {
	return time.Duration(c.Jobs.PendingReminderAgeHours) * time.Hour
}

func (c *Config) InboxRetention() time.Duration {
	return time.Duration(c.Jobs.InboxRetentionDays) * 24 * time.Hour
}
