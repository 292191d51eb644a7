package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	// Optional env vars fall back to a default instead of failing.
	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	getFloatOr := func(key string, fallback float64) float64 {
		raw, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Fatalf("Error: Environment variable %s is not a number: %s", key, raw)
		}
		return value
	}

	getMinutesOr := func(key string, fallback time.Duration) time.Duration {
		raw, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("Error: Environment variable %s is not a number of minutes: %s", key, raw)
		}
		return time.Duration(minutes) * time.Minute
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN"),
			ChannelID: getEnv("SLACK_CHANNEL_ID"),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: getEnv("GCP_PROJECT"),
		Matchmaking: MatchmakingConfig{
			KFactor:                getFloatOr("ELO_K_FACTOR", 32),
			DefaultMMR:             getFloatOr("DEFAULT_MMR", 1500),
			PremiumWaitFloor:       getMinutesOr("PREMIUM_WAIT_FLOOR_MINUTES", 10*time.Minute),
			EstimatedMatchDuration: getMinutesOr("ESTIMATED_MATCH_MINUTES", 40*time.Minute),
		},
	}
	return cfg
}
