// Package config loads service configuration from the environment. Key
// names mirror the ingestion worker's settings so both deployments share
// one .env file.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// Text generation
	GeminiModel         string
	GeminiFallbackModel string
	GoogleCloudProject  string
	GoogleCloudLocation string
	GenerationTimeout   time.Duration

	// Relational metadata store
	PGWriteURL string
	DBTimeout  time.Duration

	// Analytical engine (remote Parquet)
	S3AccessKey  string
	S3SecretKey  string
	S3Endpoint   string
	S3Region     string
	S3BucketName string

	// Token budget
	RedisAddr      string
	UserTokenLimit int
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "prod"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiFallbackModel: getEnv("GEMINI_FALLBACK_MODEL", "gemini-1.5-flash"),
		GoogleCloudProject:  os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GoogleCloudLocation: os.Getenv("GOOGLE_CLOUD_LOCATION"),
		GenerationTimeout:   getDurationSeconds("GENERATION_TIMEOUT", 25*time.Second),

		PGWriteURL: os.Getenv("PG_WRITE_URL"),
		DBTimeout:  getDurationSeconds("DB_TIMEOUT", 30*time.Second),

		S3AccessKey:  os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:  os.Getenv("S3_SECRET_KEY"),
		S3Endpoint:   os.Getenv("S3_ENDPOINT"),
		S3Region:     getEnv("S3_REGION", "auto"),
		S3BucketName: getEnv("S3_BUCKET_NAME", "atlas"),

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		UserTokenLimit: getInt("USER_TOKEN_LIMIT", 100000),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDurationSeconds(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
