package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	EventTriggers EventTriggersConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Cache         CacheConfig
	RateLimit     RateLimitConfig
	Certificates  CertificatesConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL        string
	CACertPath string
	MaxConns   int32
	MinConns   int32
}

type EventTriggersConfig struct {
	SubmissionCreatedTriggerURL string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

type CacheConfig struct {
	FormTTLSeconds int // Form schema cache TTL in seconds, 0 disables the cache
}

// FormTTL returns the form cache TTL as a duration
func (c CacheConfig) FormTTL() time.Duration {
	return time.Duration(c.FormTTLSeconds) * time.Second
}

type RateLimitConfig struct {
	GeneralRPS         float64
	GeneralBurst       int
	RegistrationPerMin int
	RegistrationBurst  int
}

type CertificatesConfig struct {
	MaxTemplateBytes int64
	MaxPixels        int64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DATABASE_MAX_CONNS", 20)
	v.SetDefault("DATABASE_MIN_CONNS", 2)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("FORM_CACHE_TTL", 60)
	v.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	v.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)
	v.SetDefault("RATE_LIMIT_REGISTRATION_PER_MIN", 6)
	v.SetDefault("RATE_LIMIT_REGISTRATION_BURST", 3)
	v.SetDefault("CERTIFICATE_MAX_TEMPLATE_BYTES", 8<<20)
	v.SetDefault("CERTIFICATE_MAX_PIXELS", 25_000_000)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "alloy:4318") // OTLP over HTTP
	v.SetDefault("O11Y_BE_SERVICE_NAME", "registration-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "hackathon-hub")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "registration-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			URL:        v.GetString("DATABASE_URL"),
			CACertPath: v.GetString("DATABASE_CA_CERT"),
			MaxConns:   v.GetInt32("DATABASE_MAX_CONNS"),
			MinConns:   v.GetInt32("DATABASE_MIN_CONNS"),
		},
		EventTriggers: EventTriggersConfig{
			SubmissionCreatedTriggerURL: v.GetString("SUBMISSION_CREATED_TRIGGER_URL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Cache: CacheConfig{
			FormTTLSeconds: v.GetInt("FORM_CACHE_TTL"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:         v.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst:       v.GetInt("RATE_LIMIT_GENERAL_BURST"),
			RegistrationPerMin: v.GetInt("RATE_LIMIT_REGISTRATION_PER_MIN"),
			RegistrationBurst:  v.GetInt("RATE_LIMIT_REGISTRATION_BURST"),
		},
		Certificates: CertificatesConfig{
			MaxTemplateBytes: v.GetInt64("CERTIFICATE_MAX_TEMPLATE_BYTES"),
			MaxPixels:        v.GetInt64("CERTIFICATE_MAX_PIXELS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blanks
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}
	if c.Cache.FormTTLSeconds < 0 {
		return fmt.Errorf("FORM_CACHE_TTL must not be negative")
	}
	if c.RateLimit.GeneralRPS <= 0 || c.RateLimit.RegistrationPerMin <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	if c.Certificates.MaxTemplateBytes <= 0 || c.Certificates.MaxPixels <= 0 {
		return fmt.Errorf("certificate template limits must be positive")
	}
	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
