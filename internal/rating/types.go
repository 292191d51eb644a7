package rating

import (
	"database/sql"
	"sync"
)

// store handles database operations for skill ratings.
type store struct {
	db         *sql.DB
	mu         sync.RWMutex
	defaultMMR float64
}

// SkillRating is one player's rating record for one sport.
type SkillRating struct {
	UserID        string  `json:"user_id"`
	SportID       string  `json:"sport_id"`
	MMR           float64 `json:"mmr"`
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"win_rate"`
	LastMatchAt   *int64  `json:"last_match_at,omitempty"`
}

// recomputeWinRate derives the win rate from the counters.
// It is zero (undefined) until the first match is recorded.
func (r *SkillRating) recomputeWinRate() {
	if r.MatchesPlayed > 0 {
		r.WinRate = float64(r.Wins) / float64(r.MatchesPlayed)
	} else {
		r.WinRate = 0
	}
}

// Outcome is the actual score of a match from one player's perspective.
type Outcome float64

const (
	OutcomeWin  Outcome = 1
	OutcomeLoss Outcome = 0
	OutcomeDraw Outcome = 0.5
)

// Complement returns the opponent's outcome.
func (o Outcome) Complement() Outcome {
	return Outcome(1 - float64(o))
}
