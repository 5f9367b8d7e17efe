package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Inputs
	ModelPath string
	MatchPath string

	// Simulation overrides. Zero keeps the model file / built-in default.
	Trials  int
	Workers int
	Seed    uint64

	// Report sink. Empty disables the SQLite report.
	ReportDBPath string

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ModelPath: envStr("MODEL_PATH", "data/model.yaml"),
		MatchPath: envStr("MATCH_PATH", "data/matches/tokyo_2021.yaml"),

		Trials:  envInt("TRIALS", 0),
		Workers: envInt("WORKERS", 0),
		Seed:    envUint("SEED", 0),

		ReportDBPath: envStr("REPORT_DB_PATH", ""),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envUint(key string, fallback uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
