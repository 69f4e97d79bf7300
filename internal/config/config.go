package config

import (
	"os"
	"strconv"
	"strings"
)

// Result store drivers.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreNone     = "none"
)

type Config struct {
	Port           int
	LogLevel       string
	LogFormat      string
	StoreDriver    string
	DatabaseURL    string
	SQLitePath     string
	TuningFile     string
	EventLogDir    string
	AssetDir       string
	RNGSeed        int64
	AllowedOrigins []string
}

func Load() *Config {
	return &Config{
		Port:           getEnvInt("PORT", 8080),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreSQLite)),
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/binsort?sslmode=disable"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/results.db"),
		TuningFile:     getEnv("TUNING_FILE", ""),
		EventLogDir:    getEnv("EVENT_LOG_DIR", ""),
		AssetDir:       getEnv("ASSET_DIR", "public/images"),
		RNGSeed:        getEnvInt64("RNG_SEED", 0),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
