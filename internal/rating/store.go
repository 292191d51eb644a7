package rating

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a new rating Store. Players without a stored rating are
// reported at defaultMMR with zero matches played.
func New(db *sql.DB, defaultMMR float64) Store {
	return &store{
		db:         db,
		defaultMMR: defaultMMR,
	}
}

// Get returns a player's rating for a sport. A record is created lazily on
// the player's first match, so a missing row is the configured default.
func (s *store) Get(userID, sportID string) (SkillRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, found, err := scanRating(s.db.QueryRow(`
		SELECT user_id, sport_id, mmr, matches_played, wins, losses, last_match_at
		FROM skill_ratings WHERE user_id = ? AND sport_id = ?
	`, userID, sportID))
	if err != nil {
		return SkillRating{}, err
	}
	if !found {
		return SkillRating{UserID: userID, SportID: sportID, MMR: s.defaultMMR}, nil
	}
	return r, nil
}

// GetMany returns ratings for a set of players in one query. Players without
// a record appear at the default MMR.
func (s *store) GetMany(userIDs []string, sportID string) (map[string]SkillRating, error) {
	ratings := make(map[string]SkillRating, len(userIDs))
	for _, id := range userIDs {
		ratings[id] = SkillRating{UserID: id, SportID: sportID, MMR: s.defaultMMR}
	}
	if len(userIDs) == 0 {
		return ratings, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.Repeat("?,", len(userIDs)-1) + "?"
	args := make([]any, 0, len(userIDs)+1)
	for _, id := range userIDs {
		args = append(args, id)
	}
	args = append(args, sportID)

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT user_id, sport_id, mmr, matches_played, wins, losses, last_match_at
		FROM skill_ratings WHERE user_id IN (%s) AND sport_id = ?
	`, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		r, _, err := scanRating(rows)
		if err != nil {
			log.Error("Failed to scan rating row", "error", err)
			continue
		}
		ratings[r.UserID] = r
	}
	return ratings, rows.Err()
}

// Leaderboard returns ratings for a sport ordered by MMR descending.
func (s *store) Leaderboard(sportID string, limit int) ([]SkillRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 25
	}
	rows, err := s.db.Query(`
		SELECT user_id, sport_id, mmr, matches_played, wins, losses, last_match_at
		FROM skill_ratings WHERE sport_id = ?
		ORDER BY mmr DESC, matches_played DESC
		LIMIT ?
	`, sportID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var board []SkillRating
	for rows.Next() {
		r, _, err := scanRating(rows)
		if err != nil {
			log.Error("Failed to scan rating row", "error", err)
			continue
		}
		board = append(board, r)
	}
	return board, rows.Err()
}

// GetOrDefaultTx reads a rating inside an open transaction, falling back to
// a fresh record at defaultMMR. Used by the match completion transaction.
func GetOrDefaultTx(tx *sql.Tx, userID, sportID string, defaultMMR float64) (SkillRating, error) {
	r, found, err := scanRating(tx.QueryRow(`
		SELECT user_id, sport_id, mmr, matches_played, wins, losses, last_match_at
		FROM skill_ratings WHERE user_id = ? AND sport_id = ?
	`, userID, sportID))
	if err != nil {
		return SkillRating{}, err
	}
	if !found {
		return SkillRating{UserID: userID, SportID: sportID, MMR: defaultMMR}, nil
	}
	return r, nil
}

// UpsertTx writes a rating record inside an open transaction.
func UpsertTx(tx *sql.Tx, r SkillRating) error {
	_, err := tx.Exec(`
		INSERT INTO skill_ratings (user_id, sport_id, mmr, matches_played, wins, losses, last_match_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, sport_id) DO UPDATE SET
			mmr = excluded.mmr,
			matches_played = excluded.matches_played,
			wins = excluded.wins,
			losses = excluded.losses,
			last_match_at = excluded.last_match_at
	`, r.UserID, r.SportID, r.MMR, r.MatchesPlayed, r.Wins, r.Losses, r.LastMatchAt)
	return err
}

func scanRating(scanner interface{ Scan(...any) error }) (SkillRating, bool, error) {
	var r SkillRating
	var lastMatchAt sql.NullInt64
	err := scanner.Scan(&r.UserID, &r.SportID, &r.MMR, &r.MatchesPlayed, &r.Wins, &r.Losses, &lastMatchAt)
	if err == sql.ErrNoRows {
		return SkillRating{}, false, nil
	}
	if err != nil {
		return SkillRating{}, false, err
	}
	if lastMatchAt.Valid {
		r.LastMatchAt = &lastMatchAt.Int64
	}
	r.recomputeWinRate()
	return r, true, nil
}
