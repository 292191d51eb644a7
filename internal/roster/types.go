package roster

import (
	"database/sql"
	"sync"
)

// store handles all database operations for events and their rosters.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// EventStatus defines the lifecycle state of an event.
type EventStatus string

const (
	EventActive EventStatus = "ACTIVE"
	EventEnded  EventStatus = "ENDED"
)

// SkillBracket is an event's configured eligibility range used to gate match formation.
type SkillBracket string

const (
	BracketBeginner     SkillBracket = "beginner"
	BracketIntermediate SkillBracket = "intermediate"
	BracketAdvanced     SkillBracket = "advanced"
	BracketMixed        SkillBracket = "mixed"
)

// Admits reports whether a rating falls inside the bracket.
// The mixed bracket admits everyone.
func (b SkillBracket) Admits(mmr float64) bool {
	switch b {
	case BracketBeginner:
		return mmr < 1400
	case BracketIntermediate:
		return mmr >= 1400 && mmr < 1700
	case BracketAdvanced:
		return mmr >= 1700
	default:
		return true
	}
}

// Valid reports whether the bracket is one of the known values.
func (b SkillBracket) Valid() bool {
	switch b {
	case BracketBeginner, BracketIntermediate, BracketAdvanced, BracketMixed:
		return true
	}
	return false
}

// CheckinStatus tracks a participant through an event.
type CheckinStatus string

const (
	StatusRegistered CheckinStatus = "REGISTERED"
	StatusConfirmed  CheckinStatus = "CONFIRMED"
	StatusCheckedIn  CheckinStatus = "CHECKED_IN"
	StatusPlaying    CheckinStatus = "PLAYING"
	StatusDone       CheckinStatus = "DONE"
)

// Role defines a participant's authority within an event.
type Role string

const (
	RoleHost   Role = "HOST"
	RoleCoHost Role = "COHOST"
	RolePlayer Role = "PLAYER"
)

// Event holds an event's matchmaking configuration.
type Event struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	SportID      string       `json:"sport_id"`
	HostID       string       `json:"host_id"`
	SkillBracket SkillBracket `json:"skill_bracket"`
	CourtCount   int          `json:"court_count"`
	Status       EventStatus  `json:"status"`
	CreatedAt    int64        `json:"created_at"`
}

// Participant is one user's membership in an event's roster.
type Participant struct {
	EventID  string        `json:"event_id"`
	UserID   string        `json:"user_id"`
	Name     string        `json:"name"`
	Status   CheckinStatus `json:"status"`
	Role     Role          `json:"role"`
	Premium  bool          `json:"premium"`
	JoinedAt int64         `json:"joined_at"`
}
