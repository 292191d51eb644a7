package roster

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateEventFunc          func(event *Event) error
	GetEventFunc             func(eventID string) (*Event, error)
	EndEventFunc             func(eventID string) error
	AddParticipantFunc       func(participant *Participant) error
	GetParticipantFunc       func(eventID, userID string) (*Participant, error)
	ParticipantsFunc         func(eventID string) ([]Participant, error)
	SetParticipantStatusFunc func(eventID, userID string, status CheckinStatus) error
	CheckInFunc              func(eventID, userID string) error
	RoleOfFunc               func(eventID, userID string) (Role, error)
	IsHostFunc               func(eventID, userID string) bool

	// Call records
	CreateEventCalls          []*Event
	EndEventCalls             []string
	AddParticipantCalls       []*Participant
	SetParticipantStatusCalls []struct {
		EventID string
		UserID  string
		Status  CheckinStatus
	}
	CheckInCalls []struct {
		EventID string
		UserID  string
	}
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) CreateEvent(event *Event) error {
	m.mu.Lock()
	m.CreateEventCalls = append(m.CreateEventCalls, event)
	m.mu.Unlock()
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(event)
	}
	return nil
}

func (m *MockStore) GetEvent(eventID string) (*Event, error) {
	if m.GetEventFunc != nil {
		return m.GetEventFunc(eventID)
	}
	return nil, nil
}

func (m *MockStore) EndEvent(eventID string) error {
	m.mu.Lock()
	m.EndEventCalls = append(m.EndEventCalls, eventID)
	m.mu.Unlock()
	if m.EndEventFunc != nil {
		return m.EndEventFunc(eventID)
	}
	return nil
}

func (m *MockStore) AddParticipant(participant *Participant) error {
	m.mu.Lock()
	m.AddParticipantCalls = append(m.AddParticipantCalls, participant)
	m.mu.Unlock()
	if m.AddParticipantFunc != nil {
		return m.AddParticipantFunc(participant)
	}
	return nil
}

func (m *MockStore) GetParticipant(eventID, userID string) (*Participant, error) {
	if m.GetParticipantFunc != nil {
		return m.GetParticipantFunc(eventID, userID)
	}
	return nil, nil
}

func (m *MockStore) Participants(eventID string) ([]Participant, error) {
	if m.ParticipantsFunc != nil {
		return m.ParticipantsFunc(eventID)
	}
	return nil, nil
}

func (m *MockStore) SetParticipantStatus(eventID, userID string, status CheckinStatus) error {
	m.mu.Lock()
	m.SetParticipantStatusCalls = append(m.SetParticipantStatusCalls, struct {
		EventID string
		UserID  string
		Status  CheckinStatus
	}{eventID, userID, status})
	m.mu.Unlock()
	if m.SetParticipantStatusFunc != nil {
		return m.SetParticipantStatusFunc(eventID, userID, status)
	}
	return nil
}

func (m *MockStore) CheckIn(eventID, userID string) error {
	m.mu.Lock()
	m.CheckInCalls = append(m.CheckInCalls, struct {
		EventID string
		UserID  string
	}{eventID, userID})
	m.mu.Unlock()
	if m.CheckInFunc != nil {
		return m.CheckInFunc(eventID, userID)
	}
	return nil
}

func (m *MockStore) RoleOf(eventID, userID string) (Role, error) {
	if m.RoleOfFunc != nil {
		return m.RoleOfFunc(eventID, userID)
	}
	return RolePlayer, nil
}

func (m *MockStore) IsHost(eventID, userID string) bool {
	if m.IsHostFunc != nil {
		return m.IsHostFunc(eventID, userID)
	}
	return false
}
