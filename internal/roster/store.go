package roster

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new roster Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// CreateEvent inserts a new event. The host is added to the roster with the
// HOST role in the same transaction.
func (s *store) CreateEvent(event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.SkillBracket == "" {
		event.SkillBracket = BracketMixed
	}
	if !event.SkillBracket.Valid() {
		return fmt.Errorf("unknown skill bracket %q", event.SkillBracket)
	}
	if event.Status == "" {
		event.Status = EventActive
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO events (id, name, sport_id, host_id, skill_bracket, court_count, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, event.ID, event.Name, event.SportID, event.HostID, event.SkillBracket, event.CourtCount, event.Status, event.CreatedAt)
	if err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO participants (event_id, user_id, name, status, role, premium, joined_at)
		VALUES (?, ?, '', ?, ?, 0, ?)
		ON CONFLICT(event_id, user_id) DO UPDATE SET role = excluded.role
	`, event.ID, event.HostID, StatusConfirmed, RoleHost, event.CreatedAt)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// GetEvent retrieves a single event by ID.
func (s *store) GetEvent(eventID string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var event Event
	err := s.db.QueryRow(`
		SELECT id, name, sport_id, host_id, skill_bracket, court_count, status, created_at
		FROM events WHERE id = ?
	`, eventID).Scan(&event.ID, &event.Name, &event.SportID, &event.HostID,
		&event.SkillBracket, &event.CourtCount, &event.Status, &event.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// EndEvent marks an event as ended. Ephemeral matchmaking state is cleared
// separately by the matchmaking store.
func (s *store) EndEvent(eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE events SET status = ? WHERE id = ?", EventEnded, eventID)
	return err
}

// AddParticipant registers a user on an event's roster.
func (s *store) AddParticipant(p *Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Status == "" {
		p.Status = StatusRegistered
	}
	if p.Role == "" {
		p.Role = RolePlayer
	}
	if p.JoinedAt == 0 {
		p.JoinedAt = time.Now().Unix()
	}

	_, err := s.db.Exec(`
		INSERT INTO participants (event_id, user_id, name, status, role, premium, joined_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id, user_id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			role = excluded.role,
			premium = excluded.premium
	`, p.EventID, p.UserID, p.Name, p.Status, p.Role, boolToInt(p.Premium), p.JoinedAt)
	return err
}

// GetParticipant retrieves a single roster entry.
func (s *store) GetParticipant(eventID, userID string) (*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Participant
	var premium int
	err := s.db.QueryRow(`
		SELECT event_id, user_id, name, status, role, premium, joined_at
		FROM participants WHERE event_id = ? AND user_id = ?
	`, eventID, userID).Scan(&p.EventID, &p.UserID, &p.Name, &p.Status, &p.Role, &premium, &p.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Premium = premium != 0
	return &p, nil
}

// Participants returns the full roster for an event in join order.
func (s *store) Participants(eventID string) ([]Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT event_id, user_id, name, status, role, premium, joined_at
		FROM participants WHERE event_id = ? ORDER BY joined_at
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []Participant
	for rows.Next() {
		var p Participant
		var premium int
		if err := rows.Scan(&p.EventID, &p.UserID, &p.Name, &p.Status, &p.Role, &premium, &p.JoinedAt); err != nil {
			log.Error("Failed to scan participant row", "error", err)
			continue
		}
		p.Premium = premium != 0
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// SetParticipantStatus moves a participant to a new check-in status.
func (s *store) SetParticipantStatus(eventID, userID string, status CheckinStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE participants SET status = ? WHERE event_id = ? AND user_id = ?
	`, status, eventID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("participant %s not found in event %s", userID, eventID)
	}
	return nil
}

// CheckIn confirms physical presence, making the participant eligible for the queue.
func (s *store) CheckIn(eventID, userID string) error {
	return s.SetParticipantStatus(eventID, userID, StatusCheckedIn)
}

// RoleOf returns the participant's role, or RolePlayer for unknown users.
func (s *store) RoleOf(eventID, userID string) (Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var role Role
	err := s.db.QueryRow(`
		SELECT role FROM participants WHERE event_id = ? AND user_id = ?
	`, eventID, userID).Scan(&role)
	if err == sql.ErrNoRows {
		return RolePlayer, nil
	}
	if err != nil {
		return RolePlayer, err
	}
	return role, nil
}

// IsHost reports whether the user carries host authority for the event.
// Both the configured host and co-hosts qualify.
func (s *store) IsHost(eventID, userID string) bool {
	role, err := s.RoleOf(eventID, userID)
	if err != nil {
		log.Error("Failed to resolve role", "error", err, "eventID", eventID, "userID", userID)
		return false
	}
	return role == RoleHost || role == RoleCoHost
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
