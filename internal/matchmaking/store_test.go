package matchmaking_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mbergkvist/courtflow/internal/database"
	"github.com/mbergkvist/courtflow/internal/matchmaking"
	"github.com/mbergkvist/courtflow/internal/rating"
	"github.com/mbergkvist/courtflow/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db      *sql.DB
	store   matchmaking.Store
	roster  roster.Store
	ratings rating.Store
	eventID string
	now     time.Time
}

// newFixture seeds an active badminton event with two courts and four
// checked-in, queued players.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	f := &fixture{
		db:      db,
		store:   matchmaking.NewStore(db),
		roster:  roster.New(db),
		ratings: rating.New(db, 1500),
		eventID: "evt-1",
		now:     time.Unix(1_700_000_000, 0),
	}

	require.NoError(t, f.roster.CreateEvent(&roster.Event{
		ID:      f.eventID,
		Name:    "Club Night",
		SportID: "badminton",
		HostID:  "host-1",
	}))
	require.NoError(t, f.store.EnsureCourts(f.eventID, 2))

	for i, userID := range []string{"alice", "bob", "carol", "dave"} {
		require.NoError(t, f.roster.AddParticipant(&roster.Participant{
			EventID:  f.eventID,
			UserID:   userID,
			Name:     userID,
			Status:   roster.StatusRegistered,
			Role:     roster.RolePlayer,
			JoinedAt: f.now.Unix(),
		}))
		require.NoError(t, f.roster.CheckIn(f.eventID, userID))
		require.NoError(t, f.store.Enqueue(f.eventID, userID, f.now.Add(time.Duration(i)*time.Minute)))
	}
	return f
}

func (f *fixture) queueLen(t *testing.T) int {
	t.Helper()
	queue, err := f.store.QueueSnapshot(f.eventID, f.now.Add(time.Hour), 10*time.Minute)
	require.NoError(t, err)
	return len(queue)
}

func (f *fixture) assign(t *testing.T, court int, playerA, playerB string) *matchmaking.Match {
	t.Helper()
	match, err := f.store.AssignCourt(f.eventID, court, playerA, playerB, "host-1", 40, f.now)
	require.NoError(t, err)
	return match
}

func (f *fixture) start(t *testing.T, matchID string) *matchmaking.Match {
	t.Helper()
	match, err := f.store.StartMatch(f.eventID, matchID, 1500, f.now.Add(time.Minute))
	require.NoError(t, err)
	return match
}

func badmintonWin() matchmaking.Score {
	return matchmaking.Score{
		Sport: matchmaking.SportBadminton,
		Sets:  []matchmaking.Frame{{A: 21, B: 15}, {A: 21, B: 18}},
	}
}

func TestAssignCourt_AtomicallyDequeuesAndOccupies(t *testing.T) {
	f := newFixture(t)

	match := f.assign(t, 1, "alice", "bob")
	assert.Equal(t, matchmaking.StateScheduled, match.State)
	assert.Equal(t, matchmaking.ResultUndetermined, match.Result)

	// Both players left the queue in the same transaction.
	assert.Equal(t, 2, f.queueLen(t))

	courts, err := f.store.ListCourts(f.eventID)
	require.NoError(t, err)
	require.Len(t, courts, 2)
	assert.Equal(t, matchmaking.CourtScheduled, courts[0].Status)
	require.NotNil(t, courts[0].Match)
	assert.Equal(t, match.ID, courts[0].Match.ID)
	assert.Equal(t, matchmaking.CourtAvailable, courts[1].Status)

	// Both players moved to PLAYING.
	for _, userID := range []string{"alice", "bob"} {
		p, err := f.roster.GetParticipant(f.eventID, userID)
		require.NoError(t, err)
		assert.Equal(t, roster.StatusPlaying, p.Status)
	}
}

func TestAssignCourt_OccupiedCourtConflicts(t *testing.T) {
	f := newFixture(t)

	f.assign(t, 1, "alice", "bob")
	_, err := f.store.AssignCourt(f.eventID, 1, "carol", "dave", "host-1", 40, f.now)
	require.Error(t, err)
	assert.Equal(t, matchmaking.KindConflict, matchmaking.KindOf(err))

	// A failed assignment must not consume queue entries.
	assert.Equal(t, 2, f.queueLen(t))
}

func TestAssignCourt_UnqueuedPlayerConflicts(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.store.Dequeue(f.eventID, "bob"))
	_, err := f.store.AssignCourt(f.eventID, 1, "alice", "bob", "host-1", 40, f.now)
	require.Error(t, err)
	assert.Equal(t, matchmaking.KindConflict, matchmaking.KindOf(err))
}

func TestAssignCourt_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.AssignCourt(f.eventID, 0, "alice", "bob", "host-1", 40, f.now)
	assert.Equal(t, matchmaking.KindValidation, matchmaking.KindOf(err))

	_, err = f.store.AssignCourt(f.eventID, 1, "alice", "alice", "host-1", 40, f.now)
	assert.Equal(t, matchmaking.KindValidation, matchmaking.KindOf(err))

	_, err = f.store.AssignCourt(f.eventID, 9, "alice", "bob", "host-1", 40, f.now)
	assert.Equal(t, matchmaking.KindNotFound, matchmaking.KindOf(err))
}

func TestEnqueue_RejectsDoubleMembership(t *testing.T) {
	f := newFixture(t)

	err := f.store.Enqueue(f.eventID, "alice", f.now)
	require.Error(t, err)
	assert.Equal(t, matchmaking.KindConflict, matchmaking.KindOf(err))

	// A player in a live match cannot rejoin the queue either.
	f.assign(t, 1, "alice", "bob")
	err = f.store.Enqueue(f.eventID, "alice", f.now)
	require.Error(t, err)
	assert.Equal(t, matchmaking.KindConflict, matchmaking.KindOf(err))
}

func TestStartMatch_SnapshotsRatings(t *testing.T) {
	f := newFixture(t)

	// Give alice a stored rating; bob plays on the default.
	tx, err := f.db.Begin()
	require.NoError(t, err)
	require.NoError(t, rating.UpsertTx(tx, rating.SkillRating{
		UserID: "alice", SportID: "badminton", MMR: 1600, MatchesPlayed: 3, Wins: 2, Losses: 1,
	}))
	require.NoError(t, tx.Commit())

	match := f.assign(t, 1, "alice", "bob")
	started := f.start(t, match.ID)

	assert.Equal(t, matchmaking.StateOngoing, started.State)
	require.NotNil(t, started.MMRBeforeA)
	require.NotNil(t, started.MMRBeforeB)
	assert.Equal(t, 1600.0, *started.MMRBeforeA)
	assert.Equal(t, 1500.0, *started.MMRBeforeB)
	require.NotNil(t, started.StartTime)

	courts, err := f.store.ListCourts(f.eventID)
	require.NoError(t, err)
	assert.Equal(t, matchmaking.CourtPlaying, courts[0].Status)
}

func TestStartMatch_OnlyFromScheduled(t *testing.T) {
	f := newFixture(t)

	match := f.assign(t, 1, "alice", "bob")
	f.start(t, match.ID)

	_, err := f.store.StartMatch(f.eventID, match.ID, 1500, f.now)
	require.Error(t, err)
	assert.Equal(t, matchmaking.KindState, matchmaking.KindOf(err))
}

func TestCompleteMatch_AppliesRatingsAndFreesCourt(t *testing.T) {
	f := newFixture(t)
	calc := rating.NewCalculator(32, 1500)

	match := f.assign(t, 1, "alice", "bob")
	f.start(t, match.ID)

	completed, ratings, err := f.store.CompleteMatch(f.eventID, match.ID, badmintonWin(), matchmaking.ResultPlayerAWin, calc, "host-1", f.now.Add(30*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, matchmaking.StateCompleted, completed.State)
	assert.Equal(t, matchmaking.ResultPlayerAWin, completed.Result)
	require.NotNil(t, completed.MMRAfterA)
	assert.Equal(t, 1516.0, *completed.MMRAfterA)
	assert.Equal(t, 1484.0, *completed.MMRAfterB)

	require.Len(t, ratings, 2)
	assert.Equal(t, 1516.0, ratings["alice"].MMR)
	assert.Equal(t, 1, ratings["alice"].Wins)
	assert.Equal(t, 1484.0, ratings["bob"].MMR)
	assert.Equal(t, 1, ratings["bob"].Losses)

	// Ratings are durable.
	stored, err := f.ratings.Get("alice", "badminton")
	require.NoError(t, err)
	assert.Equal(t, 1516.0, stored.MMR)

	// Court is free again and players are back to checked in.
	courts, err := f.store.ListCourts(f.eventID)
	require.NoError(t, err)
	assert.Equal(t, matchmaking.CourtAvailable, courts[0].Status)
	for _, userID := range []string{"alice", "bob"} {
		p, err := f.roster.GetParticipant(f.eventID, userID)
		require.NoError(t, err)
		assert.Equal(t, roster.StatusCheckedIn, p.Status)
	}
}

func TestCompleteMatch_DoubleCompletionLeavesRatingsUntouched(t *testing.T) {
	f := newFixture(t)
	calc := rating.NewCalculator(32, 1500)

	match := f.assign(t, 1, "alice", "bob")
	f.start(t, match.ID)

	_, _, err := f.store.CompleteMatch(f.eventID, match.ID, badmintonWin(), matchmaking.ResultPlayerAWin, calc, "host-1", f.now)
	require.NoError(t, err)

	_, _, err = f.store.CompleteMatch(f.eventID, match.ID, badmintonWin(), matchmaking.ResultPlayerAWin, calc, "host-1", f.now)
	require.Error(t, err)
	assert.Equal(t, matchmaking.KindState, matchmaking.KindOf(err))

	// The second attempt applied nothing.
	stored, err := f.ratings.Get("alice", "badminton")
	require.NoError(t, err)
	assert.Equal(t, 1516.0, stored.MMR)
	assert.Equal(t, 1, stored.MatchesPlayed)
}

func TestCompleteMatch_RequiresOngoing(t *testing.T) {
	f := newFixture(t)
	calc := rating.NewCalculator(32, 1500)

	match := f.assign(t, 1, "alice", "bob")
	_, _, err := f.store.CompleteMatch(f.eventID, match.ID, badmintonWin(), matchmaking.ResultPlayerAWin, calc, "host-1", f.now)
	require.Error(t, err)
	assert.Equal(t, matchmaking.KindState, matchmaking.KindOf(err))
}

func TestCompleteMatch_UsesPreMatchSnapshots(t *testing.T) {
	f := newFixture(t)
	calc := rating.NewCalculator(32, 1500)

	// Two matches started off the same 1500 snapshot for carol.
	m1 := f.assign(t, 1, "alice", "carol")
	m2 := f.assign(t, 2, "bob", "dave")
	f.start(t, m1.ID)
	f.start(t, m2.ID)

	// carol loses match 1: 1500 -> 1484.
	_, _, err := f.store.CompleteMatch(f.eventID, m1.ID, badmintonWin(), matchmaking.ResultPlayerAWin, calc, "host-1", f.now)
	require.NoError(t, err)

	// bob's match completes afterwards; his adjustment still comes off the
	// 1500 snapshot taken at start, not his current stored rating.
	completed, _, err := f.store.CompleteMatch(f.eventID, m2.ID, badmintonWin(), matchmaking.ResultPlayerAWin, calc, "host-1", f.now)
	require.NoError(t, err)
	assert.Equal(t, 1516.0, *completed.MMRAfterA)
}

func TestCompleteMatch_KeepsResultsFromOtherEvents(t *testing.T) {
	f := newFixture(t)
	calc := rating.NewCalculator(32, 1500)

	// alice plays live in two events at once; both matches snapshot her at
	// the 1500 default.
	m1 := f.assign(t, 1, "alice", "bob")
	f.start(t, m1.ID)

	require.NoError(t, f.roster.CreateEvent(&roster.Event{
		ID:      "evt-2",
		Name:    "Other Night",
		SportID: "badminton",
		HostID:  "host-2",
	}))
	require.NoError(t, f.store.EnsureCourts("evt-2", 1))
	for _, userID := range []string{"alice", "eve"} {
		require.NoError(t, f.roster.AddParticipant(&roster.Participant{
			EventID: "evt-2", UserID: userID, Name: userID,
			Status: roster.StatusRegistered, Role: roster.RolePlayer, JoinedAt: f.now.Unix(),
		}))
		require.NoError(t, f.roster.CheckIn("evt-2", userID))
		require.NoError(t, f.store.Enqueue("evt-2", userID, f.now))
	}
	m2, err := f.store.AssignCourt("evt-2", 1, "alice", "eve", "host-2", 40, f.now)
	require.NoError(t, err)
	_, err = f.store.StartMatch("evt-2", m2.ID, 1500, f.now.Add(time.Minute))
	require.NoError(t, err)

	// The first win lands: alice 1500 -> 1516.
	_, _, err = f.store.CompleteMatch(f.eventID, m1.ID, badmintonWin(), matchmaking.ResultPlayerAWin, calc, "host-1", f.now)
	require.NoError(t, err)

	// The second completion's delta still comes off the 1500 snapshot but
	// stacks on top of the interim result instead of overwriting it.
	completed, ratings, err := f.store.CompleteMatch("evt-2", m2.ID, badmintonWin(), matchmaking.ResultPlayerAWin, calc, "host-2", f.now)
	require.NoError(t, err)
	assert.Equal(t, 1532.0, ratings["alice"].MMR)
	assert.Equal(t, 1532.0, *completed.MMRAfterA)
	assert.Equal(t, 2, ratings["alice"].MatchesPlayed)
	assert.Equal(t, 2, ratings["alice"].Wins)
}

func TestOverridePlayer_ScheduledKeepsSnapshotUnset(t *testing.T) {
	f := newFixture(t)

	match := f.assign(t, 1, "alice", "bob")
	updated, err := f.store.OverridePlayer(f.eventID, match.ID, "bob", "carol", "injury", "host-1", 1500, f.now)
	require.NoError(t, err)

	assert.Equal(t, "carol", updated.PlayerB)
	assert.Nil(t, updated.MMRBeforeB)

	// carol left the queue when taking the slot.
	assert.Equal(t, 1, f.queueLen(t))
}

func TestOverridePlayer_OngoingRefreshesSnapshot(t *testing.T) {
	f := newFixture(t)

	tx, err := f.db.Begin()
	require.NoError(t, err)
	require.NoError(t, rating.UpsertTx(tx, rating.SkillRating{
		UserID: "carol", SportID: "badminton", MMR: 1650, MatchesPlayed: 4, Wins: 3, Losses: 1,
	}))
	require.NoError(t, tx.Commit())

	match := f.assign(t, 1, "alice", "bob")
	f.start(t, match.ID)

	updated, err := f.store.OverridePlayer(f.eventID, match.ID, "bob", "carol", "no-show", "host-1", 1500, f.now)
	require.NoError(t, err)
	assert.Equal(t, "carol", updated.PlayerB)
	require.NotNil(t, updated.MMRBeforeB)
	assert.Equal(t, 1650.0, *updated.MMRBeforeB)

	// The old player goes back to checked in.
	p, err := f.roster.GetParticipant(f.eventID, "bob")
	require.NoError(t, err)
	assert.Equal(t, roster.StatusCheckedIn, p.Status)

	// Completion settles against the substitute's snapshot.
	calc := rating.NewCalculator(32, 1500)
	completed, ratings, err := f.store.CompleteMatch(f.eventID, match.ID, badmintonWin(), matchmaking.ResultPlayerBWin, calc, "host-1", f.now)
	require.NoError(t, err)
	assert.Equal(t, ratings["carol"].MMR, *completed.MMRAfterB)
	assert.Equal(t, 1, ratings["carol"].Wins)
}

func TestOverridePlayer_Rejections(t *testing.T) {
	f := newFixture(t)

	match := f.assign(t, 1, "alice", "bob")

	_, err := f.store.OverridePlayer(f.eventID, match.ID, "carol", "dave", "", "host-1", 1500, f.now)
	assert.Equal(t, matchmaking.KindValidation, matchmaking.KindOf(err), "old player not in match")

	_, err = f.store.OverridePlayer(f.eventID, match.ID, "alice", "bob", "", "host-1", 1500, f.now)
	assert.Equal(t, matchmaking.KindConflict, matchmaking.KindOf(err), "new player already in match")

	_, err = f.store.OverridePlayer(f.eventID, match.ID, "alice", "stranger", "", "host-1", 1500, f.now)
	assert.Equal(t, matchmaking.KindValidation, matchmaking.KindOf(err), "unknown participant")
}

func TestCancelMatch_FreesCourtWithoutRatings(t *testing.T) {
	f := newFixture(t)

	match := f.assign(t, 1, "alice", "bob")
	f.start(t, match.ID)

	cancelled, err := f.store.CancelMatch(f.eventID, match.ID, "host-1", f.now)
	require.NoError(t, err)
	assert.Equal(t, matchmaking.StateCancelled, cancelled.State)

	courts, err := f.store.ListCourts(f.eventID)
	require.NoError(t, err)
	assert.Equal(t, matchmaking.CourtAvailable, courts[0].Status)

	stored, err := f.ratings.Get("alice", "badminton")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.MatchesPlayed)

	// Terminal states never transition again.
	_, err = f.store.CancelMatch(f.eventID, match.ID, "host-1", f.now)
	assert.Equal(t, matchmaking.KindState, matchmaking.KindOf(err))
}

func TestCanFormMatch_RespectsBracket(t *testing.T) {
	f := newFixture(t)

	can, err := f.store.CanFormMatch(f.eventID, roster.BracketMixed, "badminton", 1500)
	require.NoError(t, err)
	assert.True(t, can)

	// Everyone sits at the 1500 default, outside the beginner bracket.
	can, err = f.store.CanFormMatch(f.eventID, roster.BracketBeginner, "badminton", 1500)
	require.NoError(t, err)
	assert.False(t, can)

	can, err = f.store.CanFormMatch(f.eventID, roster.BracketIntermediate, "badminton", 1500)
	require.NoError(t, err)
	assert.True(t, can)
}

func TestAuditTrail_RecordsLifecycle(t *testing.T) {
	f := newFixture(t)
	calc := rating.NewCalculator(32, 1500)

	match := f.assign(t, 1, "alice", "bob")
	f.start(t, match.ID)
	_, err := f.store.OverridePlayer(f.eventID, match.ID, "bob", "carol", "injury", "host-1", 1500, f.now)
	require.NoError(t, err)

	// A co-host records the result; the trail names them, not the host who
	// scheduled the match.
	_, _, err = f.store.CompleteMatch(f.eventID, match.ID, badmintonWin(), matchmaking.ResultPlayerAWin, calc, "cohost-1", f.now)
	require.NoError(t, err)

	trail, err := f.store.AuditTrail(match.ID)
	require.NoError(t, err)
	require.Len(t, trail, 3)
	assert.Equal(t, "ASSIGN", trail[0].Action)
	assert.Equal(t, "OVERRIDE_PLAYER", trail[1].Action)
	assert.Contains(t, trail[1].Detail, "injury")
	assert.Equal(t, "COMPLETE", trail[2].Action)
	assert.Equal(t, "cohost-1", trail[2].ActorID)
}

func TestRemoveEvent_ClearsEphemeralStateKeepsHistory(t *testing.T) {
	f := newFixture(t)
	calc := rating.NewCalculator(32, 1500)

	m1 := f.assign(t, 1, "alice", "bob")
	f.start(t, m1.ID)
	_, _, err := f.store.CompleteMatch(f.eventID, m1.ID, badmintonWin(), matchmaking.ResultPlayerAWin, calc, "host-1", f.now)
	require.NoError(t, err)

	m2 := f.assign(t, 1, "carol", "dave")
	f.start(t, m2.ID)

	require.NoError(t, f.store.RemoveEvent(f.eventID))

	// Queue and courts are gone; the live match was cancelled.
	assert.Equal(t, 0, f.queueLen(t))
	courts, err := f.store.ListCourts(f.eventID)
	require.NoError(t, err)
	assert.Empty(t, courts)

	cancelled, err := f.store.GetMatch(f.eventID, m2.ID)
	require.NoError(t, err)
	assert.Equal(t, matchmaking.StateCancelled, cancelled.State)

	// Completed history and applied ratings survive.
	completed, err := f.store.GetMatch(f.eventID, m1.ID)
	require.NoError(t, err)
	assert.Equal(t, matchmaking.StateCompleted, completed.State)

	stored, err := f.ratings.Get("alice", "badminton")
	require.NoError(t, err)
	assert.Equal(t, 1516.0, stored.MMR)

	// All participants are done.
	p, err := f.roster.GetParticipant(f.eventID, "alice")
	require.NoError(t, err)
	assert.Equal(t, roster.StatusDone, p.Status)
}

func TestUserQueriesSpanEvents(t *testing.T) {
	f := newFixture(t)

	// Queues are per event; alice can wait in two events at once.
	require.NoError(t, f.roster.CreateEvent(&roster.Event{
		ID:      "evt-2",
		Name:    "Other Night",
		SportID: "badminton",
		HostID:  "host-2",
	}))
	require.NoError(t, f.store.EnsureCourts("evt-2", 1))
	require.NoError(t, f.roster.AddParticipant(&roster.Participant{
		EventID: "evt-2", UserID: "alice", Name: "alice",
		Status: roster.StatusRegistered, Role: roster.RolePlayer, JoinedAt: f.now.Unix(),
	}))
	require.NoError(t, f.roster.CheckIn("evt-2", "alice"))
	require.NoError(t, f.store.Enqueue("evt-2", "alice", f.now))

	entries, err := f.store.UserQueueEntries("alice", f.now.Add(time.Minute), 10*time.Minute)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	match := f.assign(t, 1, "bob", "carol")
	live, err := f.store.UserLiveMatches("bob")
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, match.ID, live[0].ID)
}
