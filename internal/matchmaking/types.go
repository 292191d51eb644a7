package matchmaking

import (
	"database/sql"
	"sync"
)

// store handles database operations for queues, courts, and matches.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// MatchState is a match's position in its lifecycle.
type MatchState string

const (
	StateScheduled MatchState = "SCHEDULED"
	StateOngoing   MatchState = "ONGOING"
	StateCompleted MatchState = "COMPLETED"
	StateCancelled MatchState = "CANCELLED"
)

// Terminal reports whether the state is an end state. Terminal matches are
// append-only history and never transition again.
func (s MatchState) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// MatchResult is the outcome of a completed match.
type MatchResult string

const (
	ResultPlayerAWin   MatchResult = "PLAYER_A_WIN"
	ResultPlayerBWin   MatchResult = "PLAYER_B_WIN"
	ResultDraw         MatchResult = "DRAW"
	ResultUndetermined MatchResult = "UNDETERMINED"
)

// CourtStatus is a court's availability.
type CourtStatus string

const (
	CourtAvailable CourtStatus = "AVAILABLE"
	CourtScheduled CourtStatus = "SCHEDULED"
	CourtPlaying   CourtStatus = "PLAYING"
)

// Match is a two-player match bound to a court.
type Match struct {
	ID               string      `json:"id"`
	EventID          string      `json:"event_id"`
	SportID          string      `json:"sport_id"`
	CourtNumber      int         `json:"court_number"`
	PlayerA          string      `json:"player_a"`
	PlayerB          string      `json:"player_b"`
	State            MatchState  `json:"state"`
	Score            *Score      `json:"score,omitempty"`
	Result           MatchResult `json:"result"`
	MMRBeforeA       *float64    `json:"mmr_before_a,omitempty"`
	MMRBeforeB       *float64    `json:"mmr_before_b,omitempty"`
	MMRAfterA        *float64    `json:"mmr_after_a,omitempty"`
	MMRAfterB        *float64    `json:"mmr_after_b,omitempty"`
	StartTime        *int64      `json:"start_time,omitempty"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	CreatedBy        string      `json:"created_by"`
	CreatedAt        int64       `json:"created_at"`
}

// HasPlayer reports whether the user plays on either side.
func (m *Match) HasPlayer(userID string) bool {
	return m.PlayerA == userID || m.PlayerB == userID
}

// MatchSummary is the compact view of a match bound to a court.
type MatchSummary struct {
	ID      string     `json:"id"`
	PlayerA string     `json:"player_a"`
	PlayerB string     `json:"player_b"`
	State   MatchState `json:"state"`
}

// Court is a numbered, event-scoped playing resource.
type Court struct {
	EventID string        `json:"event_id"`
	Number  int           `json:"number"`
	Status  CourtStatus   `json:"status"`
	Match   *MatchSummary `json:"match,omitempty"`
}

// QueueEntry is one waiting participant in display order. WaitingMinutes is
// derived at snapshot time, never stored.
type QueueEntry struct {
	EventID        string `json:"event_id,omitempty"`
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Premium        bool   `json:"premium"`
	EnqueuedAt     int64  `json:"enqueued_at"`
	WaitingMinutes int    `json:"waiting_minutes"`
}

// EventStatus is the aggregated matchmaking view of one event.
type EventStatus struct {
	EventID       string       `json:"event_id"`
	Courts        []Court      `json:"courts"`
	Queue         []QueueEntry `json:"queue"`
	Scheduled     []*Match     `json:"scheduled_matches"`
	Ongoing       []*Match     `json:"ongoing_matches"`
	Completed     []*Match     `json:"completed_matches"`
	WaitingCount  int          `json:"waiting_count"`
	ActiveMatches int          `json:"active_matches"`
	CanFormMatch  bool         `json:"can_form_match"`
}

// UserStatus is one user's live matchmaking state across all events.
type UserStatus struct {
	UserID      string       `json:"user_id"`
	QueuedIn    []QueueEntry `json:"queued_in"`
	LiveMatches []*Match     `json:"live_matches"`
}
