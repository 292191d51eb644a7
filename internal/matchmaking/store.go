package matchmaking

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mbergkvist/courtflow/internal/rating"
	"github.com/mbergkvist/courtflow/internal/roster"
)

// NewStore creates a new matchmaking store.
func NewStore(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// EnsureCourts creates court rows 1..count for an event. Existing rows keep
// their status so reconfiguring a live event never frees an occupied court.
func (s *store) EnsureCourts(eventID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if count < 0 {
		return ValidationError("court count must not be negative, got %d", count)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for number := 1; number <= count; number++ {
		_, err := tx.Exec(`
			INSERT INTO courts (event_id, number, status) VALUES (?, ?, ?)
			ON CONFLICT(event_id, number) DO NOTHING
		`, eventID, number, CourtAvailable)
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ListCourts returns all courts for an event with any bound live match.
func (s *store) ListCourts(eventID string) ([]Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT c.event_id, c.number, c.status, m.id, m.player_a, m.player_b, m.state
		FROM courts c
		LEFT JOIN matches m ON m.event_id = c.event_id
			AND m.court_number = c.number
			AND m.state IN (?, ?)
		WHERE c.event_id = ?
		ORDER BY c.number
	`, StateScheduled, StateOngoing, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courts []Court
	for rows.Next() {
		var c Court
		var matchID, playerA, playerB, state sql.NullString
		if err := rows.Scan(&c.EventID, &c.Number, &c.Status, &matchID, &playerA, &playerB, &state); err != nil {
			log.Error("Failed to scan court row", "error", err)
			continue
		}
		if matchID.Valid {
			c.Match = &MatchSummary{
				ID:      matchID.String,
				PlayerA: playerA.String,
				PlayerB: playerB.String,
				State:   MatchState(state.String),
			}
		}
		courts = append(courts, c)
	}
	return courts, rows.Err()
}

// Enqueue appends a checked-in participant to the waiting queue.
func (s *store) Enqueue(eventID, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status roster.CheckinStatus
	err = tx.QueryRow(`
		SELECT status FROM participants WHERE event_id = ? AND user_id = ?
	`, eventID, userID).Scan(&status)
	if err == sql.ErrNoRows {
		return ValidationError("unknown participant %s in event %s", userID, eventID)
	}
	if err != nil {
		return err
	}

	queued, err := s.isQueuedTx(tx, eventID, userID)
	if err != nil {
		return err
	}
	if queued {
		return ConflictError("participant %s is already queued", userID)
	}

	live, err := s.liveMatchCountTx(tx, eventID, userID)
	if err != nil {
		return err
	}
	if live > 0 {
		return ConflictError("participant %s is currently in a match", userID)
	}

	if status != roster.StatusCheckedIn {
		return ConflictError("participant %s is not checked in (status %s)", userID, status)
	}

	_, err = tx.Exec(`
		INSERT INTO queue_entries (event_id, user_id, enqueued_at) VALUES (?, ?, ?)
	`, eventID, userID, now.Unix())
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Dequeue removes a participant from the queue. Absence is not an error.
func (s *store) Dequeue(eventID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		DELETE FROM queue_entries WHERE event_id = ? AND user_id = ?
	`, eventID, userID)
	return err
}

// QueueSnapshot returns the queue in display order with derived waiting minutes.
func (s *store) QueueSnapshot(eventID string, now time.Time, premiumFloor time.Duration) ([]QueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.queueEntries(`
		SELECT q.event_id, q.user_id, COALESCE(p.name, ''), COALESCE(p.premium, 0), q.enqueued_at
		FROM queue_entries q
		LEFT JOIN participants p ON p.event_id = q.event_id AND p.user_id = q.user_id
		WHERE q.event_id = ?
	`, eventID)
	if err != nil {
		return nil, err
	}
	return orderQueue(entries, now, premiumFloor), nil
}

// CanFormMatch reports whether at least two queued participants' ratings fall
// inside the event's skill bracket. The mixed bracket always qualifies with
// two waiting players.
func (s *store) CanFormMatch(eventID string, bracket roster.SkillBracket, sportID string, defaultMMR float64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT COALESCE(r.mmr, ?)
		FROM queue_entries q
		LEFT JOIN skill_ratings r ON r.user_id = q.user_id AND r.sport_id = ?
		WHERE q.event_id = ?
	`, defaultMMR, sportID, eventID)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	eligible := 0
	for rows.Next() {
		var mmr float64
		if err := rows.Scan(&mmr); err != nil {
			return false, err
		}
		if bracket.Admits(mmr) {
			eligible++
			if eligible >= 2 {
				return true, rows.Err()
			}
		}
	}
	return false, rows.Err()
}

// AssignCourt pulls two queued players onto an available court, creating a
// scheduled match. The dequeues, the match insert, and the court transition
// are one transaction; no partial application is observable.
func (s *store) AssignCourt(eventID string, courtNumber int, playerA, playerB, createdBy string, estimatedMinutes int, now time.Time) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if courtNumber <= 0 {
		return nil, ValidationError("malformed court number %d", courtNumber)
	}
	if playerA == "" || playerB == "" {
		return nil, ValidationError("both player ids are required")
	}
	if playerA == playerB {
		return nil, ValidationError("players must be distinct")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var sportID string
	err = tx.QueryRow(`SELECT sport_id FROM events WHERE id = ?`, eventID).Scan(&sportID)
	if err == sql.ErrNoRows {
		return nil, NotFoundError("unknown event %s", eventID)
	}
	if err != nil {
		return nil, err
	}

	var courtStatus CourtStatus
	err = tx.QueryRow(`
		SELECT status FROM courts WHERE event_id = ? AND number = ?
	`, eventID, courtNumber).Scan(&courtStatus)
	if err == sql.ErrNoRows {
		return nil, NotFoundError("court %d not found in event %s", courtNumber, eventID)
	}
	if err != nil {
		return nil, err
	}
	if courtStatus != CourtAvailable {
		return nil, ConflictError("court %d is %s, not available", courtNumber, courtStatus)
	}

	for _, playerID := range []string{playerA, playerB} {
		queued, err := s.isQueuedTx(tx, eventID, playerID)
		if err != nil {
			return nil, err
		}
		if !queued {
			return nil, ConflictError("participant %s is not in the queue", playerID)
		}
		live, err := s.liveMatchCountTx(tx, eventID, playerID)
		if err != nil {
			return nil, err
		}
		if live > 0 {
			return nil, ConflictError("participant %s is already in a match", playerID)
		}
	}

	match := &Match{
		ID:               uuid.New().String(),
		EventID:          eventID,
		SportID:          sportID,
		CourtNumber:      courtNumber,
		PlayerA:          playerA,
		PlayerB:          playerB,
		State:            StateScheduled,
		Result:           ResultUndetermined,
		EstimatedMinutes: estimatedMinutes,
		CreatedBy:        createdBy,
		CreatedAt:        now.Unix(),
	}

	for _, playerID := range []string{playerA, playerB} {
		if _, err := tx.Exec(`DELETE FROM queue_entries WHERE event_id = ? AND user_id = ?`, eventID, playerID); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`UPDATE participants SET status = ? WHERE event_id = ? AND user_id = ?`,
			roster.StatusPlaying, eventID, playerID); err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO matches (id, event_id, sport_id, court_number, player_a, player_b, state, result, estimated_minutes, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, match.ID, match.EventID, match.SportID, match.CourtNumber, match.PlayerA, match.PlayerB,
		match.State, match.Result, match.EstimatedMinutes, match.CreatedBy, match.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`UPDATE courts SET status = ? WHERE event_id = ? AND number = ?`,
		CourtScheduled, eventID, courtNumber)
	if err != nil {
		return nil, err
	}

	if err := auditTx(tx, match.ID, createdBy, "ASSIGN", "", now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return match, nil
}

// GetMatch retrieves a match scoped to an event.
func (s *store) GetMatch(eventID, matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getMatch(s.db.QueryRow(matchSelect+` WHERE id = ? AND event_id = ?`, matchID, eventID))
}

// StartMatch moves a scheduled match to ongoing, snapshotting both players'
// pre-match ratings and marking the court as playing.
func (s *store) StartMatch(eventID, matchID string, defaultMMR float64, now time.Time) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := s.getMatchTx(tx, eventID, matchID)
	if err != nil {
		return nil, err
	}
	if match.State != StateScheduled {
		return nil, StateError("match %s is %s, cannot start", matchID, match.State)
	}

	ratingA, err := rating.GetOrDefaultTx(tx, match.PlayerA, match.SportID, defaultMMR)
	if err != nil {
		return nil, err
	}
	ratingB, err := rating.GetOrDefaultTx(tx, match.PlayerB, match.SportID, defaultMMR)
	if err != nil {
		return nil, err
	}

	startTime := now.Unix()
	_, err = tx.Exec(`
		UPDATE matches SET state = ?, start_time = ?, mmr_before_a = ?, mmr_before_b = ?
		WHERE id = ?
	`, StateOngoing, startTime, ratingA.MMR, ratingB.MMR, matchID)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`UPDATE courts SET status = ? WHERE event_id = ? AND number = ?`,
		CourtPlaying, eventID, match.CourtNumber)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	match.State = StateOngoing
	match.StartTime = &startTime
	match.MMRBeforeA = &ratingA.MMR
	match.MMRBeforeB = &ratingB.MMR
	return match, nil
}

// OverridePlayer substitutes one side of a match, logging the reason for
// audit. On an ongoing match the replaced side's pre-match rating snapshot is
// refreshed to the substitute's current rating.
func (s *store) OverridePlayer(eventID, matchID, oldPlayer, newPlayer, reason, actorID string, defaultMMR float64, now time.Time) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if newPlayer == "" {
		return nil, ValidationError("replacement player id is required")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := s.getMatchTx(tx, eventID, matchID)
	if err != nil {
		return nil, err
	}
	if match.State.Terminal() {
		return nil, StateError("match %s is %s, cannot substitute", matchID, match.State)
	}
	if !match.HasPlayer(oldPlayer) {
		return nil, ValidationError("player %s is not in match %s", oldPlayer, matchID)
	}
	if match.HasPlayer(newPlayer) {
		return nil, ConflictError("player %s is already in match %s", newPlayer, matchID)
	}

	var known int
	err = tx.QueryRow(`SELECT COUNT(1) FROM participants WHERE event_id = ? AND user_id = ?`,
		eventID, newPlayer).Scan(&known)
	if err != nil {
		return nil, err
	}
	if known == 0 {
		return nil, ValidationError("unknown participant %s in event %s", newPlayer, eventID)
	}
	live, err := s.liveMatchCountTx(tx, eventID, newPlayer)
	if err != nil {
		return nil, err
	}
	if live > 0 {
		return nil, ConflictError("participant %s is already in a match", newPlayer)
	}

	column := "player_a"
	if match.PlayerB == oldPlayer {
		column = "player_b"
	}
	_, err = tx.Exec(`UPDATE matches SET `+column+` = ? WHERE id = ?`, newPlayer, matchID)
	if err != nil {
		return nil, err
	}

	// MMR-before stays unset while scheduled; it is snapshotted at start.
	if match.State == StateOngoing {
		sub, err := rating.GetOrDefaultTx(tx, newPlayer, match.SportID, defaultMMR)
		if err != nil {
			return nil, err
		}
		mmrColumn := "mmr_before_a"
		if column == "player_b" {
			mmrColumn = "mmr_before_b"
		}
		if _, err := tx.Exec(`UPDATE matches SET `+mmrColumn+` = ? WHERE id = ?`, sub.MMR, matchID); err != nil {
			return nil, err
		}
		if column == "player_a" {
			match.MMRBeforeA = &sub.MMR
		} else {
			match.MMRBeforeB = &sub.MMR
		}
	}

	// The substitute leaves the queue if present and takes over the slot.
	if _, err := tx.Exec(`DELETE FROM queue_entries WHERE event_id = ? AND user_id = ?`, eventID, newPlayer); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`UPDATE participants SET status = ? WHERE event_id = ? AND user_id = ?`,
		roster.StatusPlaying, eventID, newPlayer); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`UPDATE participants SET status = ? WHERE event_id = ? AND user_id = ?`,
		roster.StatusCheckedIn, eventID, oldPlayer); err != nil {
		return nil, err
	}

	if err := auditTx(tx, matchID, actorID, "OVERRIDE_PLAYER", oldPlayer+" -> "+newPlayer+": "+reason, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if column == "player_a" {
		match.PlayerA = newPlayer
	} else {
		match.PlayerB = newPlayer
	}
	return match, nil
}

// CompleteMatch finishes an ongoing match: it records the score and result,
// applies the Elo adjustment to both players, writes the MMR-after fields,
// and frees the court. Everything commits as one unit; a failure anywhere
// leaves the match ongoing and the ratings untouched.
func (s *store) CompleteMatch(eventID, matchID string, score Score, result MatchResult, calc rating.Calculator, actorID string, now time.Time) (*Match, map[string]rating.SkillRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	match, err := s.getMatchTx(tx, eventID, matchID)
	if err != nil {
		return nil, nil, err
	}
	if match.State != StateOngoing {
		return nil, nil, StateError("match %s is %s, cannot complete", matchID, match.State)
	}
	if match.MMRBeforeA == nil || match.MMRBeforeB == nil {
		return nil, nil, StateError("match %s has no pre-match rating snapshot", matchID)
	}

	var outcomeA rating.Outcome
	switch result {
	case ResultPlayerAWin:
		outcomeA = rating.OutcomeWin
	case ResultPlayerBWin:
		outcomeA = rating.OutcomeLoss
	case ResultDraw:
		outcomeA = rating.OutcomeDraw
	default:
		return nil, nil, ValidationError("result %s cannot complete a match", result)
	}

	ratingA, err := rating.GetOrDefaultTx(tx, match.PlayerA, match.SportID, calc.DefaultMMR)
	if err != nil {
		return nil, nil, err
	}
	ratingB, err := rating.GetOrDefaultTx(tx, match.PlayerB, match.SportID, calc.DefaultMMR)
	if err != nil {
		return nil, nil, err
	}

	newA := calc.Apply(ratingA, *match.MMRBeforeA, outcomeA, *match.MMRBeforeB, now.Unix())
	newB := calc.Apply(ratingB, *match.MMRBeforeB, outcomeA.Complement(), *match.MMRBeforeA, now.Unix())

	if err := rating.UpsertTx(tx, newA); err != nil {
		return nil, nil, err
	}
	if err := rating.UpsertTx(tx, newB); err != nil {
		return nil, nil, err
	}

	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return nil, nil, err
	}
	_, err = tx.Exec(`
		UPDATE matches SET state = ?, score_json = ?, result = ?, mmr_after_a = ?, mmr_after_b = ?
		WHERE id = ?
	`, StateCompleted, string(scoreJSON), result, newA.MMR, newB.MMR, matchID)
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.Exec(`UPDATE courts SET status = ? WHERE event_id = ? AND number = ?`,
		CourtAvailable, eventID, match.CourtNumber)
	if err != nil {
		return nil, nil, err
	}

	for _, playerID := range []string{match.PlayerA, match.PlayerB} {
		if _, err := tx.Exec(`UPDATE participants SET status = ? WHERE event_id = ? AND user_id = ?`,
			roster.StatusCheckedIn, eventID, playerID); err != nil {
			return nil, nil, err
		}
	}

	if err := auditTx(tx, matchID, actorID, "COMPLETE", string(result), now); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	match.State = StateCompleted
	match.Score = &score
	match.Result = result
	match.MMRAfterA = &newA.MMR
	match.MMRAfterB = &newB.MMR
	return match, map[string]rating.SkillRating{
		match.PlayerA: newA,
		match.PlayerB: newB,
	}, nil
}

// CancelMatch aborts a scheduled or ongoing match. The court is freed and no
// ratings are touched; players are not re-enqueued automatically.
func (s *store) CancelMatch(eventID, matchID, actorID string, now time.Time) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := s.getMatchTx(tx, eventID, matchID)
	if err != nil {
		return nil, err
	}
	if match.State.Terminal() {
		return nil, StateError("match %s is %s, cannot cancel", matchID, match.State)
	}

	if _, err := tx.Exec(`UPDATE matches SET state = ? WHERE id = ?`, StateCancelled, matchID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`UPDATE courts SET status = ? WHERE event_id = ? AND number = ?`,
		CourtAvailable, eventID, match.CourtNumber); err != nil {
		return nil, err
	}
	for _, playerID := range []string{match.PlayerA, match.PlayerB} {
		if _, err := tx.Exec(`UPDATE participants SET status = ? WHERE event_id = ? AND user_id = ?`,
			roster.StatusCheckedIn, eventID, playerID); err != nil {
			return nil, err
		}
	}
	if err := auditTx(tx, matchID, actorID, "CANCEL", "", now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	match.State = StateCancelled
	return match, nil
}

// Matches returns an event's matches, optionally filtered by state.
func (s *store) Matches(eventID string, states ...MatchState) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := matchSelect + ` WHERE event_id = ?`
	args := []any{eventID}
	if len(states) > 0 {
		query += ` AND state IN (?` + repeatPlaceholder(len(states)-1) + `)`
		for _, st := range states {
			args = append(args, st)
		}
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		match, err := s.scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// UserQueueEntries returns the queues a user is waiting in across events.
func (s *store) UserQueueEntries(userID string, now time.Time, premiumFloor time.Duration) ([]QueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.queueEntries(`
		SELECT q.event_id, q.user_id, COALESCE(p.name, ''), COALESCE(p.premium, 0), q.enqueued_at
		FROM queue_entries q
		LEFT JOIN participants p ON p.event_id = q.event_id AND p.user_id = q.user_id
		WHERE q.user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	return orderQueue(entries, now, premiumFloor), nil
}

// UserLiveMatches returns a user's non-terminal matches across events.
func (s *store) UserLiveMatches(userID string) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(matchSelect+`
		WHERE (player_a = ? OR player_b = ?) AND state IN (?, ?)
		ORDER BY created_at
	`, userID, userID, StateScheduled, StateOngoing)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		match, err := s.scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// AuditTrail returns the logged lifecycle actions for a match.
func (s *store) AuditTrail(matchID string) ([]AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, match_id, actor_id, action, COALESCE(detail, ''), created_at
		FROM match_audit WHERE match_id = ? ORDER BY id
	`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.MatchID, &e.ActorID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			log.Error("Failed to scan audit row", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RemoveEvent clears an event's ephemeral matchmaking state: the queue and
// courts are dropped and live matches are cancelled. Completed matches and
// applied rating deltas are history and stay untouched.
func (s *store) RemoveEvent(eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM queue_entries WHERE event_id = ?`, eventID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		UPDATE matches SET state = ? WHERE event_id = ? AND state IN (?, ?)
	`, StateCancelled, eventID, StateScheduled, StateOngoing); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM courts WHERE event_id = ?`, eventID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		UPDATE participants SET status = ? WHERE event_id = ?
	`, roster.StatusDone, eventID); err != nil {
		return err
	}
	return tx.Commit()
}

const matchSelect = `
	SELECT id, event_id, sport_id, court_number, player_a, player_b, state, score_json, result,
	       mmr_before_a, mmr_before_b, mmr_after_a, mmr_after_b, start_time, estimated_minutes,
	       created_by, created_at
	FROM matches`

func (s *store) getMatch(row *sql.Row) (*Match, error) {
	match, err := s.scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, NotFoundError("match not found")
	}
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *store) getMatchTx(tx *sql.Tx, eventID, matchID string) (*Match, error) {
	match, err := s.scanMatch(tx.QueryRow(matchSelect+` WHERE id = ? AND event_id = ?`, matchID, eventID))
	if err == sql.ErrNoRows {
		return nil, NotFoundError("match %s not found in event %s", matchID, eventID)
	}
	if err != nil {
		return nil, err
	}
	return match, nil
}

// scanMatch is a helper to scan a single match row.
func (s *store) scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var match Match
	var scoreJSON sql.NullString
	var mmrBeforeA, mmrBeforeB, mmrAfterA, mmrAfterB sql.NullFloat64
	var startTime sql.NullInt64

	err := scanner.Scan(
		&match.ID, &match.EventID, &match.SportID, &match.CourtNumber,
		&match.PlayerA, &match.PlayerB, &match.State, &scoreJSON, &match.Result,
		&mmrBeforeA, &mmrBeforeB, &mmrAfterA, &mmrAfterB, &startTime,
		&match.EstimatedMinutes, &match.CreatedBy, &match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if scoreJSON.Valid && scoreJSON.String != "" {
		var score Score
		if err := json.Unmarshal([]byte(scoreJSON.String), &score); err != nil {
			log.Error("Failed to unmarshal score payload", "error", err, "matchID", match.ID)
		} else {
			match.Score = &score
		}
	}
	if mmrBeforeA.Valid {
		match.MMRBeforeA = &mmrBeforeA.Float64
	}
	if mmrBeforeB.Valid {
		match.MMRBeforeB = &mmrBeforeB.Float64
	}
	if mmrAfterA.Valid {
		match.MMRAfterA = &mmrAfterA.Float64
	}
	if mmrAfterB.Valid {
		match.MMRAfterB = &mmrAfterB.Float64
	}
	if startTime.Valid {
		match.StartTime = &startTime.Int64
	}
	return &match, nil
}

func (s *store) queueEntries(query string, args ...any) ([]QueueEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []QueueEntry
	for rows.Next() {
		var e QueueEntry
		var premium int
		if err := rows.Scan(&e.EventID, &e.UserID, &e.Name, &premium, &e.EnqueuedAt); err != nil {
			log.Error("Failed to scan queue row", "error", err)
			continue
		}
		e.Premium = premium != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *store) isQueuedTx(tx *sql.Tx, eventID, userID string) (bool, error) {
	var count int
	err := tx.QueryRow(`
		SELECT COUNT(1) FROM queue_entries WHERE event_id = ? AND user_id = ?
	`, eventID, userID).Scan(&count)
	return count > 0, err
}

func (s *store) liveMatchCountTx(tx *sql.Tx, eventID, userID string) (int, error) {
	var count int
	err := tx.QueryRow(`
		SELECT COUNT(1) FROM matches
		WHERE event_id = ? AND (player_a = ? OR player_b = ?) AND state IN (?, ?)
	`, eventID, userID, userID, StateScheduled, StateOngoing).Scan(&count)
	return count, err
}

func auditTx(tx *sql.Tx, matchID, actorID, action, detail string, now time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO match_audit (match_id, actor_id, action, detail, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, matchID, actorID, action, detail, now.Unix())
	return err
}

func repeatPlaceholder(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}
