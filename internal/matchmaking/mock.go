package matchmaking

import (
	"sync"
	"time"

	"github.com/mbergkvist/courtflow/internal/rating"
	"github.com/mbergkvist/courtflow/internal/roster"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	EnsureCourtsFunc     func(eventID string, count int) error
	ListCourtsFunc       func(eventID string) ([]Court, error)
	EnqueueFunc          func(eventID, userID string, now time.Time) error
	DequeueFunc          func(eventID, userID string) error
	QueueSnapshotFunc    func(eventID string, now time.Time, premiumFloor time.Duration) ([]QueueEntry, error)
	CanFormMatchFunc     func(eventID string, bracket roster.SkillBracket, sportID string, defaultMMR float64) (bool, error)
	AssignCourtFunc      func(eventID string, courtNumber int, playerA, playerB, createdBy string, estimatedMinutes int, now time.Time) (*Match, error)
	GetMatchFunc         func(eventID, matchID string) (*Match, error)
	StartMatchFunc       func(eventID, matchID string, defaultMMR float64, now time.Time) (*Match, error)
	OverridePlayerFunc   func(eventID, matchID, oldPlayer, newPlayer, reason, actorID string, defaultMMR float64, now time.Time) (*Match, error)
	CompleteMatchFunc    func(eventID, matchID string, score Score, result MatchResult, calc rating.Calculator, actorID string, now time.Time) (*Match, map[string]rating.SkillRating, error)
	CancelMatchFunc      func(eventID, matchID, actorID string, now time.Time) (*Match, error)
	MatchesFunc          func(eventID string, states ...MatchState) ([]*Match, error)
	UserQueueEntriesFunc func(userID string, now time.Time, premiumFloor time.Duration) ([]QueueEntry, error)
	UserLiveMatchesFunc  func(userID string) ([]*Match, error)
	AuditTrailFunc       func(matchID string) ([]AuditEntry, error)
	RemoveEventFunc      func(eventID string) error

	// Call records
	EnqueueCalls []struct {
		EventID string
		UserID  string
	}
	DequeueCalls []struct {
		EventID string
		UserID  string
	}
	AssignCourtCalls []struct {
		EventID     string
		CourtNumber int
		PlayerA     string
		PlayerB     string
	}
	RemoveEventCalls []string
}

var _ Store = (*MockStore)(nil)

// NewMockStore creates a new mock instance.
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) EnsureCourts(eventID string, count int) error {
	if m.EnsureCourtsFunc != nil {
		return m.EnsureCourtsFunc(eventID, count)
	}
	return nil
}

func (m *MockStore) ListCourts(eventID string) ([]Court, error) {
	if m.ListCourtsFunc != nil {
		return m.ListCourtsFunc(eventID)
	}
	return nil, nil
}

func (m *MockStore) Enqueue(eventID, userID string, now time.Time) error {
	m.mu.Lock()
	m.EnqueueCalls = append(m.EnqueueCalls, struct {
		EventID string
		UserID  string
	}{eventID, userID})
	m.mu.Unlock()
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(eventID, userID, now)
	}
	return nil
}

func (m *MockStore) Dequeue(eventID, userID string) error {
	m.mu.Lock()
	m.DequeueCalls = append(m.DequeueCalls, struct {
		EventID string
		UserID  string
	}{eventID, userID})
	m.mu.Unlock()
	if m.DequeueFunc != nil {
		return m.DequeueFunc(eventID, userID)
	}
	return nil
}

func (m *MockStore) QueueSnapshot(eventID string, now time.Time, premiumFloor time.Duration) ([]QueueEntry, error) {
	if m.QueueSnapshotFunc != nil {
		return m.QueueSnapshotFunc(eventID, now, premiumFloor)
	}
	return nil, nil
}

func (m *MockStore) CanFormMatch(eventID string, bracket roster.SkillBracket, sportID string, defaultMMR float64) (bool, error) {
	if m.CanFormMatchFunc != nil {
		return m.CanFormMatchFunc(eventID, bracket, sportID, defaultMMR)
	}
	return false, nil
}

func (m *MockStore) AssignCourt(eventID string, courtNumber int, playerA, playerB, createdBy string, estimatedMinutes int, now time.Time) (*Match, error) {
	m.mu.Lock()
	m.AssignCourtCalls = append(m.AssignCourtCalls, struct {
		EventID     string
		CourtNumber int
		PlayerA     string
		PlayerB     string
	}{eventID, courtNumber, playerA, playerB})
	m.mu.Unlock()
	if m.AssignCourtFunc != nil {
		return m.AssignCourtFunc(eventID, courtNumber, playerA, playerB, createdBy, estimatedMinutes, now)
	}
	return nil, nil
}

func (m *MockStore) GetMatch(eventID, matchID string) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(eventID, matchID)
	}
	return nil, NotFoundError("match %s not found in event %s", matchID, eventID)
}

func (m *MockStore) StartMatch(eventID, matchID string, defaultMMR float64, now time.Time) (*Match, error) {
	if m.StartMatchFunc != nil {
		return m.StartMatchFunc(eventID, matchID, defaultMMR, now)
	}
	return nil, nil
}

func (m *MockStore) OverridePlayer(eventID, matchID, oldPlayer, newPlayer, reason, actorID string, defaultMMR float64, now time.Time) (*Match, error) {
	if m.OverridePlayerFunc != nil {
		return m.OverridePlayerFunc(eventID, matchID, oldPlayer, newPlayer, reason, actorID, defaultMMR, now)
	}
	return nil, nil
}

func (m *MockStore) CompleteMatch(eventID, matchID string, score Score, result MatchResult, calc rating.Calculator, actorID string, now time.Time) (*Match, map[string]rating.SkillRating, error) {
	if m.CompleteMatchFunc != nil {
		return m.CompleteMatchFunc(eventID, matchID, score, result, calc, actorID, now)
	}
	return nil, nil, nil
}

func (m *MockStore) CancelMatch(eventID, matchID, actorID string, now time.Time) (*Match, error) {
	if m.CancelMatchFunc != nil {
		return m.CancelMatchFunc(eventID, matchID, actorID, now)
	}
	return nil, nil
}

func (m *MockStore) Matches(eventID string, states ...MatchState) ([]*Match, error) {
	if m.MatchesFunc != nil {
		return m.MatchesFunc(eventID, states...)
	}
	return nil, nil
}

func (m *MockStore) UserQueueEntries(userID string, now time.Time, premiumFloor time.Duration) ([]QueueEntry, error) {
	if m.UserQueueEntriesFunc != nil {
		return m.UserQueueEntriesFunc(userID, now, premiumFloor)
	}
	return nil, nil
}

func (m *MockStore) UserLiveMatches(userID string) ([]*Match, error) {
	if m.UserLiveMatchesFunc != nil {
		return m.UserLiveMatchesFunc(userID)
	}
	return nil, nil
}

func (m *MockStore) AuditTrail(matchID string) ([]AuditEntry, error) {
	if m.AuditTrailFunc != nil {
		return m.AuditTrailFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) RemoveEvent(eventID string) error {
	m.mu.Lock()
	m.RemoveEventCalls = append(m.RemoveEventCalls, eventID)
	m.mu.Unlock()
	if m.RemoveEventFunc != nil {
		return m.RemoveEventFunc(eventID)
	}
	return nil
}
