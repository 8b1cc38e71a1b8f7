package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port    string
		GinMode string
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}

	Auth struct {
		JWTSecret     string
		MagicLinkTTL  time.Duration
		SessionTTL    time.Duration
		PublicBaseURL string
	}

	SMTP struct {
		Host     string
		Port     string
		From     string
		Username string
		Password string
	}

	Media struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		PublicURL string
		UseSSL    bool
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "eboto")
	config.DB.Password = getEnv("DB_PASSWORD", "eboto_password")
	config.DB.Name = getEnv("DB_NAME", "eboto_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	config.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", "dev-secret-change-me")
	config.Auth.MagicLinkTTL = getEnvAsDuration("AUTH_MAGIC_LINK_TTL", 15*time.Minute)
	config.Auth.SessionTTL = getEnvAsDuration("AUTH_SESSION_TTL", 12*time.Hour)
	config.Auth.PublicBaseURL = getEnv("PUBLIC_BASE_URL", "http://localhost:3000")

	config.SMTP.Host = getEnv("SMTP_HOST", "")
	config.SMTP.Port = getEnv("SMTP_PORT", "587")
	config.SMTP.From = getEnv("SMTP_FROM", "no-reply@eboto.local")
	config.SMTP.Username = getEnv("SMTP_USERNAME", "")
	config.SMTP.Password = getEnv("SMTP_PASSWORD", "")

	config.Media.Endpoint = getEnv("MEDIA_ENDPOINT", "")
	config.Media.AccessKey = getEnv("MEDIA_ACCESS_KEY", "")
	config.Media.SecretKey = getEnv("MEDIA_SECRET_KEY", "")
	config.Media.Bucket = getEnv("MEDIA_BUCKET", "eboto-media")
	config.Media.PublicURL = getEnv("MEDIA_PUBLIC_URL", "")
	config.Media.UseSSL = getEnvAsBool("MEDIA_USE_SSL", false)

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// MediaEnabled reports whether an object store is configured for
// candidate portrait uploads.
func (c *Config) MediaEnabled() bool {
	return c.Media.Endpoint != ""
}

// MailEnabled reports whether an SMTP relay is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTP.Host != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
