package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	AB       ABConfig
	Data     DataConfig
	Auth     AuthConfig
	Database DatabaseConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type ABConfig struct {
	V1Weight    float64
	Sticky      bool
	DefaultTopK int
}

// DataConfig points at the local data files backing the embedding
// indices, the app catalog and historical performance. The *URL
// fields are optional remote sources fetched on startup when the
// local file is missing.
type DataConfig struct {
	EmbeddingsV1Path string
	EmbeddingsV2Path string
	AppsPath         string
	PerformancePath  string

	EmbeddingsV1URL string
	EmbeddingsV2URL string
	AppsURL         string
	PerformanceURL  string

	// PerformanceSource selects "csv" or "postgres".
	PerformanceSource string
}

type AuthConfig struct {
	AdminJWTSecret string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v1Weight, err := strconv.ParseFloat(getEnv("AB_SPLIT_V1", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid AB_SPLIT_V1: %w", err)
	}
	if v1Weight < 0 || v1Weight > 1 {
		return nil, errors.New("AB_SPLIT_V1 must be within [0,1]")
	}

	sticky, err := strconv.ParseBool(getEnv("AB_STICKY", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid AB_STICKY: %w", err)
	}

	defaultTopK, err := strconv.Atoi(getEnv("DEFAULT_TOP_K", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TOP_K: %w", err)
	}
	if defaultTopK < 1 || defaultTopK > 100 {
		return nil, errors.New("DEFAULT_TOP_K must be within [1,100]")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "AB Similarity & Predict API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: splitAndTrim(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173,http://localhost:8080")),
		},
		AB: ABConfig{
			V1Weight:    v1Weight,
			Sticky:      sticky,
			DefaultTopK: defaultTopK,
		},
		Data: DataConfig{
			EmbeddingsV1Path:  getEnv("EMB_V1_PATH", "data/mock_embeddings_v1.json"),
			EmbeddingsV2Path:  getEnv("EMB_V2_PATH", "data/mock_embeddings_v2.json"),
			AppsPath:          getEnv("SAMPLE_APPS_PATH", "data/sample_apps.csv"),
			PerformancePath:   getEnv("HIST_PERF_PATH", "data/historical_performance.csv"),
			EmbeddingsV1URL:   getEnv("EMB_V1_URL", ""),
			EmbeddingsV2URL:   getEnv("EMB_V2_URL", ""),
			AppsURL:           getEnv("SAMPLE_APPS_URL", ""),
			PerformanceURL:    getEnv("HIST_PERF_URL", ""),
			PerformanceSource: getEnv("PERF_SOURCE", "csv"),
		},
		Auth: AuthConfig{
			AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "app_match"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
	}

	switch cfg.Data.PerformanceSource {
	case "csv":
	case "postgres":
		if cfg.Database.Password == "" {
			return nil, errors.New("missing database password")
		}
	default:
		return nil, fmt.Errorf("unknown PERF_SOURCE %q", cfg.Data.PerformanceSource)
	}

	if cfg.Auth.AdminJWTSecret == "" {
		return nil, errors.New("missing admin jwt secret")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
