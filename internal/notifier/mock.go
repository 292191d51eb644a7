package notifier

import (
	"sync"

	"github.com/mbergkvist/courtflow/internal/matchmaking"
	"github.com/mbergkvist/courtflow/internal/rating"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendMatchScheduledFunc func(match *matchmaking.Match, dryRun bool) error
	SendMatchStartedFunc   func(match *matchmaking.Match, dryRun bool) error
	SendMatchCompletedFunc func(match *matchmaking.Match, ratings map[string]rating.SkillRating, dryRun bool) error
	SendLeaderboardFunc    func(sportID string, board []rating.SkillRating, dryRun bool) error

	// Call records
	SendMatchScheduledCalls []*matchmaking.Match
	SendMatchStartedCalls   []*matchmaking.Match
	SendMatchCompletedCalls []struct {
		Match   *matchmaking.Match
		Ratings map[string]rating.SkillRating
	}
	SendLeaderboardCalls []string
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchScheduledCalls = nil
	m.SendMatchStartedCalls = nil
	m.SendMatchCompletedCalls = nil
	m.SendLeaderboardCalls = nil
}

func (m *Mock) SendMatchScheduled(match *matchmaking.Match, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchScheduledCalls = append(m.SendMatchScheduledCalls, match)
	m.mu.Unlock()
	if m.SendMatchScheduledFunc != nil {
		return m.SendMatchScheduledFunc(match, dryRun)
	}
	return nil
}

func (m *Mock) SendMatchStarted(match *matchmaking.Match, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchStartedCalls = append(m.SendMatchStartedCalls, match)
	m.mu.Unlock()
	if m.SendMatchStartedFunc != nil {
		return m.SendMatchStartedFunc(match, dryRun)
	}
	return nil
}

func (m *Mock) SendMatchCompleted(match *matchmaking.Match, ratings map[string]rating.SkillRating, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchCompletedCalls = append(m.SendMatchCompletedCalls, struct {
		Match   *matchmaking.Match
		Ratings map[string]rating.SkillRating
	}{match, ratings})
	m.mu.Unlock()
	if m.SendMatchCompletedFunc != nil {
		return m.SendMatchCompletedFunc(match, ratings, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(sportID string, board []rating.SkillRating, dryRun bool) error {
	m.mu.Lock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, sportID)
	m.mu.Unlock()
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(sportID, board, dryRun)
	}
	return nil
}

// MatchScheduledCount returns how many scheduled notifications were sent.
func (m *Mock) MatchScheduledCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendMatchScheduledCalls)
}

// MatchCompletedCount returns how many completed notifications were sent.
func (m *Mock) MatchCompletedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendMatchCompletedCalls)
}
