package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	AppName                   string
	JWTSecret                 string
	JWTRefreshSecret          string
	Database                  DatabaseConfig
	Mailer                    MailerConfig
	Seed                      SeedConfig
	RateLimit                 RateLimitConfig
	Telemetry                 TelemetryConfig
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	Path     string
	DSN      string
}

// MailerConfig holds email service configuration
type MailerConfig struct {
	Transport      string
	DefaultFrom    string
	SendGridAPIKey string
}

// SeedConfig holds the credentials given to seeded accounts.
type SeedConfig struct {
	FacultyPassword string
	AdminEmail      string
	AdminPassword   string
}

// RateLimitConfig bounds login attempts per client IP.
type RateLimitConfig struct {
	LoginPerMinute int
	LoginBurst     int
}

// TelemetryConfig holds the OTLP exporter settings. An empty endpoint disables tracing.
type TelemetryConfig struct {
	Endpoint string
	Insecure bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "mysql"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "campus"),
		Path:     getEnv("DB_PATH", "campus.db"),
	}

	switch dbConfig.Driver {
	case "mysql":
		dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)
	case "sqlite":
		dbConfig.DSN = dbConfig.Path
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", dbConfig.Driver)
	}

	mailerConfig := MailerConfig{
		Transport:      getEnv("MAILER_TRANSPORT", "console"),
		DefaultFrom:    getEnv("MAILER_DEFAULT_FROM", "noreply@campus.local"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
	}
	if mailerConfig.Transport == "sendgrid" && mailerConfig.SendGridAPIKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is required when MAILER_TRANSPORT=sendgrid")
	}

	seedConfig := SeedConfig{
		FacultyPassword: getEnv("SEED_FACULTY_PASSWORD", "password"),
		AdminEmail:      getEnv("ADMIN_EMAIL", ""),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	loginPerMinute, err := strconv.Atoi(getEnv("LOGIN_RATE_PER_MINUTE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_PER_MINUTE: %w", err)
	}

	loginBurst, err := strconv.Atoi(getEnv("LOGIN_RATE_BURST", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_BURST: %w", err)
	}

	return &Config{
		Port:             getEnv("PORT", "3001"),
		Origin:           getEnv("ORIGIN", "http://localhost:5173"),
		Environment:      getEnv("APP_ENV", "development"),
		AppName:          getEnv("APP_NAME", "Campus Faculty Availability"),
		JWTSecret:        getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		Database:         dbConfig,
		Mailer:           mailerConfig,
		Seed:             seedConfig,
		RateLimit: RateLimitConfig{
			LoginPerMinute: loginPerMinute,
			LoginBurst:     loginBurst,
		},
		Telemetry: TelemetryConfig{
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure: getEnv("OTEL_EXPORTER_OTLP_INSECURE", "") == "true",
		},
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
	}, nil
}

// IsDevelopment reports whether cookies may be sent over plain HTTP.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
