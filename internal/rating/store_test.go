package rating

import (
	"database/sql"
	"testing"

	"github.com/mbergkvist/courtflow/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*sql.DB, Store) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return db, New(db, 1500)
}

func upsert(t *testing.T, db *sql.DB, r SkillRating) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, UpsertTx(tx, r))
	require.NoError(t, tx.Commit())
}

func TestGet_DefaultsForUnknownPlayer(t *testing.T) {
	_, store := setupTestDB(t)

	r, err := store.Get("nobody", "badminton")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, r.MMR)
	assert.Equal(t, 0, r.MatchesPlayed)
	assert.Equal(t, "nobody", r.UserID)
}

func TestUpsertAndGetRoundtrip(t *testing.T) {
	db, store := setupTestDB(t)

	last := int64(1234)
	upsert(t, db, SkillRating{
		UserID: "alice", SportID: "badminton",
		MMR: 1532, MatchesPlayed: 4, Wins: 3, Losses: 1,
		LastMatchAt: &last,
	})

	r, err := store.Get("alice", "badminton")
	require.NoError(t, err)
	assert.Equal(t, 1532.0, r.MMR)
	assert.Equal(t, 4, r.MatchesPlayed)
	assert.Equal(t, 3, r.Wins)
	assert.InDelta(t, 0.75, r.WinRate, 0.0001)
	if assert.NotNil(t, r.LastMatchAt) {
		assert.Equal(t, last, *r.LastMatchAt)
	}
}

func TestRatingsArePerSport(t *testing.T) {
	db, store := setupTestDB(t)

	upsert(t, db, SkillRating{UserID: "alice", SportID: "badminton", MMR: 1600, MatchesPlayed: 1, Wins: 1})

	r, err := store.Get("alice", "table_tennis")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, r.MMR, "a rating in one sport must not leak into another")
}

func TestGetMany_MixesStoredAndDefaults(t *testing.T) {
	db, store := setupTestDB(t)

	upsert(t, db, SkillRating{UserID: "alice", SportID: "badminton", MMR: 1700, MatchesPlayed: 2, Wins: 2})

	ratings, err := store.GetMany([]string{"alice", "bob"}, "badminton")
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, 1700.0, ratings["alice"].MMR)
	assert.Equal(t, 1500.0, ratings["bob"].MMR)
}

func TestLeaderboard_OrdersByMMR(t *testing.T) {
	db, store := setupTestDB(t)

	upsert(t, db, SkillRating{UserID: "alice", SportID: "badminton", MMR: 1550, MatchesPlayed: 3, Wins: 2, Losses: 1})
	upsert(t, db, SkillRating{UserID: "bob", SportID: "badminton", MMR: 1710, MatchesPlayed: 5, Wins: 4, Losses: 1})
	upsert(t, db, SkillRating{UserID: "carol", SportID: "badminton", MMR: 1480, MatchesPlayed: 2, Losses: 2})
	upsert(t, db, SkillRating{UserID: "dave", SportID: "table_tennis", MMR: 1900, MatchesPlayed: 1, Wins: 1})

	board, err := store.Leaderboard("badminton", 10)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, "bob", board[0].UserID)
	assert.Equal(t, "alice", board[1].UserID)
	assert.Equal(t, "carol", board[2].UserID)
}

func TestLeaderboard_RespectsLimit(t *testing.T) {
	db, store := setupTestDB(t)

	upsert(t, db, SkillRating{UserID: "alice", SportID: "badminton", MMR: 1550})
	upsert(t, db, SkillRating{UserID: "bob", SportID: "badminton", MMR: 1600})

	board, err := store.Leaderboard("badminton", 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "bob", board[0].UserID)
}
