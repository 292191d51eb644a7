package roster

// Store defines the interface for interacting with events and their rosters.
type Store interface {
	CreateEvent(event *Event) error
	GetEvent(eventID string) (*Event, error)
	EndEvent(eventID string) error
	AddParticipant(participant *Participant) error
	GetParticipant(eventID, userID string) (*Participant, error)
	Participants(eventID string) ([]Participant, error)
	SetParticipantStatus(eventID, userID string, status CheckinStatus) error
	CheckIn(eventID, userID string) error
	RoleOf(eventID, userID string) (Role, error)
	IsHost(eventID, userID string) bool
}
