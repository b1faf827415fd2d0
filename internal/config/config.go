package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Auth    AuthConfig
	AWS     AWSConfig
	CORS    CORSConfig
	Logging LoggingConfig
	Search  SearchConfig
}

type ServerConfig struct {
	Port         string
	TemplatesDir string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	SigningKey string
	Issuer     string
	Expiry     time.Duration
}

type AuthConfig struct {
	OTPExpiry      time.Duration
	OTPCooldown    time.Duration
	OTPMaxAttempts int
	RefreshExpiry  time.Duration
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string
	Bucket          string
	FromEmail       string
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type LoggingConfig struct {
	Level      string
	Format     string
	Filename   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// SearchConfig points at the third-party asset search index.
type SearchConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			TemplatesDir: getEnv("EMAIL_TEMPLATES_DIR", "templates/email"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			SigningKey: getEnv("JWT_SIGNING_KEY", "default-signing-key-change-in-production"),
			Issuer:     getEnv("JWT_ISSUER", "ko-assets-rights"),
			Expiry:     getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		},
		Auth: AuthConfig{
			OTPExpiry:      getEnvDuration("OTP_EXPIRY", 10*time.Minute),
			OTPCooldown:    getEnvDuration("OTP_COOLDOWN", 60*time.Second),
			OTPMaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 5),
			RefreshExpiry:  getEnvDuration("REFRESH_EXPIRY", 30*24*time.Hour),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			EndpointURL:     getEnv("AWS_ENDPOINT_URL", ""),
			Bucket:          getEnv("ASSET_BUCKET", "ko-asset-renditions"),
			FromEmail:       getEnv("NOTIFICATION_FROM_EMAIL", "no-reply@rights.koassets.com"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getEnvList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvList("CORS_ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type"}),
			ExposedHeaders:   getEnvList("CORS_EXPOSED_HEADERS", []string{}),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvInt("CORS_MAX_AGE", 300),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			Filename:   getEnv("LOG_FILE", "logs/rights-backend.log"),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 28),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Search: SearchConfig{
			Endpoint: getEnv("SEARCH_ENDPOINT", "http://localhost:9200/assets/search"),
			APIKey:   getEnv("SEARCH_API_KEY", ""),
			Timeout:  getEnvDuration("SEARCH_TIMEOUT", 10*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
