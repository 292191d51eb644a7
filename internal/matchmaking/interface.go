package matchmaking

import (
	"time"

	"github.com/mbergkvist/courtflow/internal/rating"
	"github.com/mbergkvist/courtflow/internal/roster"
)

// Store defines the storage operations for queues, courts, and matches.
// Each mutating method is one atomic unit: it either applies fully or not at
// all. Serialization of mutations per event is the Engine's job; the store
// only guarantees transactional integrity.
type Store interface {
	// Courts
	EnsureCourts(eventID string, count int) error
	ListCourts(eventID string) ([]Court, error)

	// Queue
	Enqueue(eventID, userID string, now time.Time) error
	Dequeue(eventID, userID string) error
	QueueSnapshot(eventID string, now time.Time, premiumFloor time.Duration) ([]QueueEntry, error)
	CanFormMatch(eventID string, bracket roster.SkillBracket, sportID string, defaultMMR float64) (bool, error)

	// Match lifecycle
	AssignCourt(eventID string, courtNumber int, playerA, playerB, createdBy string, estimatedMinutes int, now time.Time) (*Match, error)
	GetMatch(eventID, matchID string) (*Match, error)
	StartMatch(eventID, matchID string, defaultMMR float64, now time.Time) (*Match, error)
	OverridePlayer(eventID, matchID, oldPlayer, newPlayer, reason, actorID string, defaultMMR float64, now time.Time) (*Match, error)
	CompleteMatch(eventID, matchID string, score Score, result MatchResult, calc rating.Calculator, actorID string, now time.Time) (*Match, map[string]rating.SkillRating, error)
	CancelMatch(eventID, matchID, actorID string, now time.Time) (*Match, error)

	// Read side
	Matches(eventID string, states ...MatchState) ([]*Match, error)
	UserQueueEntries(userID string, now time.Time, premiumFloor time.Duration) ([]QueueEntry, error)
	UserLiveMatches(userID string) ([]*Match, error)
	AuditTrail(matchID string) ([]AuditEntry, error)

	// Event teardown
	RemoveEvent(eventID string) error
}

// AuditEntry is one logged lifecycle action on a match.
type AuditEntry struct {
	ID        int64  `json:"id"`
	MatchID   string `json:"match_id"`
	ActorID   string `json:"actor_id"`
	Action    string `json:"action"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt int64  `json:"created_at"`
}
