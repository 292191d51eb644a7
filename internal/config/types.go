package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
	Matchmaking   MatchmakingConfig
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// MatchmakingConfig holds the tunable knobs of the matchmaking core.
type MatchmakingConfig struct {
	// KFactor is the Elo K constant applied to every rating adjustment.
	KFactor float64
	// DefaultMMR is the rating assigned on a player's first match in a sport.
	DefaultMMR float64
	// PremiumWaitFloor is how long a premium participant must have waited
	// before being promoted ahead of the regular FIFO order.
	PremiumWaitFloor time.Duration
	// EstimatedMatchDuration is recorded on newly scheduled matches.
	EstimatedMatchDuration time.Duration
}
