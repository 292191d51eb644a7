package rating

// Store defines read access to skill ratings. All writes go through the
// transactional helpers in this package so a match completion can update both
// players and the match record as one unit.
type Store interface {
	Get(userID, sportID string) (SkillRating, error)
	GetMany(userIDs []string, sportID string) (map[string]SkillRating, error)
	Leaderboard(sportID string, limit int) ([]SkillRating, error)
}
