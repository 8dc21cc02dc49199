package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds all configuration values from environment.
type Config struct {
	AppPort        string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSSL       bool

	// Redis is optional; when unset the payload cache runs on the memory
	// and filesystem layers only.
	RedisHost string
	RedisPort string

	// Payload cache settings
	CacheDir         string
	MemoryCacheBytes int64
	FileCacheBytes   int64
	CacheTTLMinutes  int

	// Viewer session defaults
	ViewerQuality    string // low | medium | high
	ViewerShadows    bool
	ViewerLighting   string // basic | physical | studio
	ViewerBackground string // solid | gradient | environment
	ViewerFrameRate  int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	minioSSL := false
	if sslEnv := os.Getenv("MINIO_SSL"); sslEnv != "" {
		val, err := strconv.ParseBool(sslEnv)
		if err != nil {
			return nil, fmt.Errorf("invalid MINIO_SSL value: %v", err)
		}
		minioSSL = val
	}

	cfg := &Config{
		AppPort:        os.Getenv("MODELING_PORT"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         os.Getenv("DB_PORT"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    os.Getenv("MINIO_BUCKET"),
		MinioSSL:       minioSSL,

		RedisHost: os.Getenv("REDIS_HOST"),
		RedisPort: envOrDefault("REDIS_PORT", "6379"),

		CacheDir:         envOrDefault("CACHE_DIR", os.TempDir()+"/model-cache"),
		MemoryCacheBytes: envInt64("MEMORY_CACHE_BYTES", 64<<20),
		FileCacheBytes:   envInt64("FILE_CACHE_BYTES", 512<<20),
		CacheTTLMinutes:  int(envInt64("CACHE_TTL_MINUTES", 60)),

		ViewerQuality:    envOrDefault("VIEWER_QUALITY", "medium"),
		ViewerShadows:    envBool("VIEWER_SHADOWS", true),
		ViewerLighting:   envOrDefault("VIEWER_LIGHTING", "basic"),
		ViewerBackground: envOrDefault("VIEWER_BACKGROUND", "solid"),
		ViewerFrameRate:  int(envInt64("VIEWER_FRAME_RATE", 60)),
	}
	// Basic validation for required fields
	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("database configuration is incomplete")
	}
	if cfg.MinioEndpoint == "" || cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" || cfg.MinioBucket == "" {
		return nil, fmt.Errorf("minio configuration is incomplete")
	}
	if cfg.ViewerFrameRate <= 0 {
		cfg.ViewerFrameRate = 60
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// ConnectDatabase initializes a GORM database connection to PostgreSQL.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}
