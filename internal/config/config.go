package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// BackendLocal stores clips on the local filesystem.
	BackendLocal = "local"
	// BackendS3 stores clips in an S3-compatible object store.
	BackendS3 = "s3"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string

	StorageBackend string
	StorageRoot    string
	S3Bucket       string
	S3Prefix       string
	SignedURLTTL   time.Duration

	StreamBaseURL    string
	MaxUploadBytes   int64
	TranscodeWorkers int
	FFmpegPath       string

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "9000"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		StorageBackend: getEnv("STORAGE_BACKEND", BackendLocal),
		StorageRoot:    getEnv("STORAGE_ROOT", "/tmp/voice-web"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Prefix:       getEnv("S3_PREFIX", ""),
		StreamBaseURL:  getEnv("STREAM_BASE_URL", "http://localhost:9000"),
		FFmpegPath:     getEnv("FFMPEG_PATH", "ffmpeg"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	switch cfg.StorageBackend {
	case BackendLocal:
		if cfg.StorageRoot == "" {
			return nil, fmt.Errorf("STORAGE_ROOT is required for the local backend")
		}
	case BackendS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required for the s3 backend")
		}
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendLocal, BackendS3, cfg.StorageBackend)
	}

	var err error
	cfg.MaxUploadBytes, err = getEnvInt64("MAX_UPLOAD_BYTES", 32<<20)
	if err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	workers, err := getEnvInt64("TRANSCODE_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, fmt.Errorf("TRANSCODE_WORKERS must be at least 1")
	}
	cfg.TranscodeWorkers = int(workers)

	ttlSeconds, err := getEnvInt64("SIGNED_URL_TTL_SECONDS", 24*60*30)
	if err != nil {
		return nil, err
	}
	if ttlSeconds <= 0 {
		return nil, fmt.Errorf("SIGNED_URL_TTL_SECONDS must be positive")
	}
	cfg.SignedURLTTL = time.Duration(ttlSeconds) * time.Second

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
