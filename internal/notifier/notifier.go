package notifier

import (
	"github.com/mbergkvist/courtflow/internal/matchmaking"
	"github.com/mbergkvist/courtflow/internal/rating"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For newly scheduled matches
	SendMatchScheduled(match *matchmaking.Match, dryRun bool) error
	// For matches moved onto a court
	SendMatchStarted(match *matchmaking.Match, dryRun bool) error
	// For completed matches with their rating adjustments
	SendMatchCompleted(match *matchmaking.Match, ratings map[string]rating.SkillRating, dryRun bool) error
	// For the per-sport MMR leaderboard
	SendLeaderboard(sportID string, board []rating.SkillRating, dryRun bool) error
}
