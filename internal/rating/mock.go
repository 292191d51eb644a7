package rating

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	GetFunc         func(userID, sportID string) (SkillRating, error)
	GetManyFunc     func(userIDs []string, sportID string) (map[string]SkillRating, error)
	LeaderboardFunc func(sportID string, limit int) ([]SkillRating, error)

	GetCalls []struct {
		UserID  string
		SportID string
	}
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Get(userID, sportID string) (SkillRating, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, struct {
		UserID  string
		SportID string
	}{userID, sportID})
	m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(userID, sportID)
	}
	return SkillRating{UserID: userID, SportID: sportID, MMR: 1500}, nil
}

func (m *MockStore) GetMany(userIDs []string, sportID string) (map[string]SkillRating, error) {
	if m.GetManyFunc != nil {
		return m.GetManyFunc(userIDs, sportID)
	}
	ratings := make(map[string]SkillRating, len(userIDs))
	for _, id := range userIDs {
		ratings[id] = SkillRating{UserID: id, SportID: sportID, MMR: 1500}
	}
	return ratings, nil
}

func (m *MockStore) Leaderboard(sportID string, limit int) ([]SkillRating, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(sportID, limit)
	}
	return nil, nil
}
