package config

import (
	"os"
	"strconv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port             string
	PostgresDSN      string
	MongoURI         string
	MongoDB          string
	RedisAddr        string
	RedisPassword    string
	MinioEndpoint    string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioBucket      string
	MinioUseSSL      bool
	AdviceServiceURL string
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPass         string
	FromEmail        string
}

func Load() *Config {
	return &Config{
		Port:             getenv("PORT", "8080"),
		PostgresDSN:      getenv("POSTGRES_DSN", ""),
		MongoURI:         getenv("MONGO_URI", ""),
		MongoDB:          getenv("MONGO_DB", "healthhub"),
		RedisAddr:        getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:    getenv("REDIS_PASSWORD", ""),
		MinioEndpoint:    getenv("MINIO_ENDPOINT", "minio:9000"),
		MinioAccessKey:   getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:   getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:      getenv("MINIO_BUCKET", "health-exports"),
		MinioUseSSL:      getenv("MINIO_USE_SSL", "false") == "true",
		AdviceServiceURL: getenv("ADVICE_SERVICE_URL", "http://advice-service:8000"),
		SMTPHost:         getenv("SMTP_HOST", ""),
		SMTPPort:         getenvInt("SMTP_PORT", 587),
		SMTPUser:         getenv("SMTP_USER", ""),
		SMTPPass:         getenv("SMTP_PASS", ""),
		FromEmail:        getenv("FROM_EMAIL", ""),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
