package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "BLOGPRESS_CONFIG"

// Config holds every setting the API process needs.
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Database      DatabaseConfig     `yaml:"database"`
	Auth          AuthConfig         `yaml:"auth"`
	Redis         RedisConfig        `yaml:"redis"`
	Notifications NotificationConfig `yaml:"notifications"`
	Mail          MailConfig         `yaml:"mail"`
	Storage       StorageConfig      `yaml:"storage"`
	Embeddings    EmbeddingConfig    `yaml:"embeddings"`
	LogLevel      string             `yaml:"logLevel"`
}

type ServerConfig struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"ginMode"`
}

type DatabaseConfig struct {
	DSN         string `yaml:"dsn"`
	AutoMigrate bool   `yaml:"autoMigrate"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwtSecret"`
	TokenTTL  time.Duration `yaml:"tokenTtl"`
}

// RedisConfig enables the shared revoked-token store when URL is set.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// NotificationConfig drives the outbox dispatcher.
type NotificationConfig struct {
	WebhookURL     string        `yaml:"webhookUrl"`
	FeedbackEmail  string        `yaml:"feedbackEmail"`
	ContactInbox   string        `yaml:"contactInbox"`
	PollInterval   time.Duration `yaml:"pollInterval"`
	MaxAttempts    int           `yaml:"maxAttempts"`
	BatchSize      int           `yaml:"batchSize"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	RetryBaseDelay time.Duration `yaml:"retryBaseDelay"`
	RetryMaxDelay  time.Duration `yaml:"retryMaxDelay"`
	HTTPRetries    int           `yaml:"httpRetries"`
}

type MailConfig struct {
	ResendAPIKey string     `yaml:"resendApiKey"`
	FromEmail    string     `yaml:"fromEmail"`
	FromName     string     `yaml:"fromName"`
	AppName      string     `yaml:"appName"`
	AppBaseURL   string     `yaml:"appBaseUrl"`
	SMTP         SMTPConfig `yaml:"smtp"`
}

type SMTPConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	UseSSL     bool   `yaml:"useSsl"`
	RequireTLS bool   `yaml:"requireTls"`
}

// StorageConfig describes the S3-compatible bucket for cover images.
type StorageConfig struct {
	Bucket         string `yaml:"bucket"`
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	AccessKey      string `yaml:"accessKey"`
	SecretKey      string `yaml:"secretKey"`
	PublicBaseURL  string `yaml:"publicBaseUrl"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes"`
}

type EmbeddingConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"apiKey"`
	Model    string `yaml:"model"`
}

// Enabled reports whether object storage has been configured.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && (s.Endpoint != "" || s.Region != "")
}

// LoadEnvFiles overlays .env and .env.dev onto the process environment.
// Missing files are ignored. It returns the files that were loaded.
func LoadEnvFiles() []string {
	files := []string{".env", ".env.dev"}
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			continue
		}
		loaded = append(loaded, file)
	}
	return loaded
}

// Load resolves configuration as defaults, then the YAML file named by
// BLOGPRESS_CONFIG, then environment variables.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "release",
		},
		Database: DatabaseConfig{
			AutoMigrate: true,
		},
		Auth: AuthConfig{
			TokenTTL: time.Hour,
		},
		Notifications: NotificationConfig{
			PollInterval:   5 * time.Second,
			MaxAttempts:    5,
			BatchSize:      20,
			RequestTimeout: 10 * time.Second,
			RetryBaseDelay: 500 * time.Millisecond,
			RetryMaxDelay:  5 * time.Second,
			HTTPRetries:    2,
		},
		Mail: MailConfig{
			FromEmail: "noreply@blogpress.dev",
			FromName:  "Blogpress",
			AppName:   "Blogpress",
			SMTP: SMTPConfig{
				Port:       587,
				RequireTLS: true,
			},
		},
		Storage: StorageConfig{
			Bucket:         "blog-images",
			MaxUploadBytes: 5 << 20,
		},
		LogLevel: "info",
	}
}

func (c *Config) applyEnvOverrides() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.GinMode = getEnv("GIN_MODE", c.Server.GinMode)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.Database.DSN = getEnv("POSTGRES_URL", c.Database.DSN)
	c.Database.AutoMigrate = getEnvBool("DB_AUTO_MIGRATE", c.Database.AutoMigrate)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = getEnvDuration("TOKEN_TTL", c.Auth.TokenTTL)

	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)

	n := &c.Notifications
	n.WebhookURL = getEnv("FEEDBACK_WEBHOOK_URL", n.WebhookURL)
	n.FeedbackEmail = getEnv("FEEDBACK_NOTIFY_EMAIL", n.FeedbackEmail)
	n.ContactInbox = getEnv("CONTACT_INBOX", n.ContactInbox)
	n.PollInterval = getEnvDuration("NOTIFY_POLL_INTERVAL", n.PollInterval)
	n.MaxAttempts = getEnvInt("NOTIFY_MAX_ATTEMPTS", n.MaxAttempts)
	n.BatchSize = getEnvInt("NOTIFY_BATCH_SIZE", n.BatchSize)
	n.RequestTimeout = getEnvDuration("NOTIFY_REQUEST_TIMEOUT", n.RequestTimeout)

	m := &c.Mail
	m.ResendAPIKey = getEnv("RESEND_API_KEY", m.ResendAPIKey)
	m.FromEmail = getEnv("FROM_EMAIL", m.FromEmail)
	m.AppBaseURL = getEnv("APP_BASE_URL", m.AppBaseURL)
	m.SMTP.Host = getEnv("SMTP_HOST", m.SMTP.Host)
	m.SMTP.Port = getEnvInt("SMTP_PORT", m.SMTP.Port)
	m.SMTP.Username = getEnv("SMTP_USER", m.SMTP.Username)
	m.SMTP.Password = getEnv("SMTP_PASSWORD", m.SMTP.Password)
	m.SMTP.UseSSL = getEnvBool("SMTP_USE_SSL", m.SMTP.UseSSL)

	s := &c.Storage
	s.Bucket = getEnv("S3_BUCKET", s.Bucket)
	s.Region = getEnv("S3_REGION", s.Region)
	s.Endpoint = getEnv("S3_ENDPOINT", s.Endpoint)
	s.AccessKey = getEnv("S3_ACCESS_KEY", s.AccessKey)
	s.SecretKey = getEnv("S3_SECRET_KEY", s.SecretKey)
	s.PublicBaseURL = getEnv("S3_PUBLIC_BASE_URL", s.PublicBaseURL)

	e := &c.Embeddings
	e.Provider = strings.ToLower(getEnv("EMBEDDING_PROVIDER", e.Provider))
	e.Model = getEnv("EMBEDDING_MODEL", e.Model)
	switch e.Provider {
	case "openai":
		e.APIKey = getEnv("OPENAI_API_KEY", e.APIKey)
	case "gemini":
		e.APIKey = getEnv("GEMINI_API_KEY", e.APIKey)
	}
}

// Validate rejects configurations the process cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Notifications.MaxAttempts < 1 {
		errs = append(errs, errors.New("NOTIFY_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Notifications.BatchSize < 1 {
		errs = append(errs, errors.New("NOTIFY_BATCH_SIZE must be at least 1"))
	}
	if c.Notifications.PollInterval <= 0 {
		errs = append(errs, errors.New("NOTIFY_POLL_INTERVAL must be positive"))
	}
	switch c.Embeddings.Provider {
	case "", "openai", "gemini":
	default:
		errs = append(errs, fmt.Errorf("unsupported EMBEDDING_PROVIDER %q", c.Embeddings.Provider))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
