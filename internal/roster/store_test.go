package roster_test

import (
	"testing"

	"github.com/mbergkvist/courtflow/internal/database"
	"github.com/mbergkvist/courtflow/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) roster.Store {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return roster.New(db)
}

func newEvent(id string) *roster.Event {
	return &roster.Event{
		ID:         id,
		Name:       "Tuesday Badminton",
		SportID:    "badminton",
		HostID:     "host-1",
		CourtCount: 3,
	}
}

func TestCreateEvent_SeedsHostParticipant(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.CreateEvent(newEvent("evt-1")))

	event, err := store.GetEvent("evt-1")
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, roster.BracketMixed, event.SkillBracket)
	assert.Equal(t, roster.EventActive, event.Status)
	assert.NotZero(t, event.CreatedAt)

	host, err := store.GetParticipant("evt-1", "host-1")
	require.NoError(t, err)
	require.NotNil(t, host)
	assert.Equal(t, roster.RoleHost, host.Role)
	assert.Equal(t, roster.StatusConfirmed, host.Status)
}

func TestCreateEvent_RejectsUnknownBracket(t *testing.T) {
	store := setupTestStore(t)

	event := newEvent("evt-1")
	event.SkillBracket = "pro"
	assert.Error(t, store.CreateEvent(event))
}

func TestGetEvent_UnknownReturnsNil(t *testing.T) {
	store := setupTestStore(t)

	event, err := store.GetEvent("evt-404")
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestEndEvent_MarksEnded(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.CreateEvent(newEvent("evt-1")))

	require.NoError(t, store.EndEvent("evt-1"))

	event, err := store.GetEvent("evt-1")
	require.NoError(t, err)
	assert.Equal(t, roster.EventEnded, event.Status)
}

func TestAddParticipant_DefaultsAndUpsert(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.CreateEvent(newEvent("evt-1")))

	require.NoError(t, store.AddParticipant(&roster.Participant{
		EventID: "evt-1",
		UserID:  "alice",
		Name:    "Alice",
	}))

	p, err := store.GetParticipant("evt-1", "alice")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, roster.RolePlayer, p.Role)
	assert.Equal(t, roster.StatusRegistered, p.Status)
	assert.False(t, p.Premium)

	// Re-adding the same user updates role and premium flag in place.
	require.NoError(t, store.AddParticipant(&roster.Participant{
		EventID: "evt-1",
		UserID:  "alice",
		Name:    "Alice",
		Role:    roster.RoleCoHost,
		Premium: true,
	}))

	p, err = store.GetParticipant("evt-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, roster.RoleCoHost, p.Role)
	assert.True(t, p.Premium)

	participants, err := store.Participants("evt-1")
	require.NoError(t, err)
	assert.Len(t, participants, 2, "host plus alice, no duplicate rows")
}

func TestCheckIn_MovesStatus(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.CreateEvent(newEvent("evt-1")))
	require.NoError(t, store.AddParticipant(&roster.Participant{EventID: "evt-1", UserID: "alice"}))

	require.NoError(t, store.CheckIn("evt-1", "alice"))

	p, err := store.GetParticipant("evt-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, roster.StatusCheckedIn, p.Status)
}

func TestSetParticipantStatus_UnknownParticipant(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.CreateEvent(newEvent("evt-1")))

	assert.Error(t, store.SetParticipantStatus("evt-1", "ghost", roster.StatusPlaying))
}

func TestRoleOf_DefaultsToPlayer(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.CreateEvent(newEvent("evt-1")))

	role, err := store.RoleOf("evt-1", "stranger")
	require.NoError(t, err)
	assert.Equal(t, roster.RolePlayer, role)
}

func TestIsHost_HostAndCoHostQualify(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.CreateEvent(newEvent("evt-1")))
	require.NoError(t, store.AddParticipant(&roster.Participant{
		EventID: "evt-1", UserID: "carol", Role: roster.RoleCoHost,
	}))
	require.NoError(t, store.AddParticipant(&roster.Participant{
		EventID: "evt-1", UserID: "alice",
	}))

	assert.True(t, store.IsHost("evt-1", "host-1"))
	assert.True(t, store.IsHost("evt-1", "carol"))
	assert.False(t, store.IsHost("evt-1", "alice"))
	assert.False(t, store.IsHost("evt-1", "stranger"))
}

func TestSkillBracketAdmits(t *testing.T) {
	tests := []struct {
		name    string
		bracket roster.SkillBracket
		mmr     float64
		want    bool
	}{
		{"beginner admits low", roster.BracketBeginner, 1200, true},
		{"beginner rejects boundary", roster.BracketBeginner, 1400, false},
		{"intermediate admits boundary", roster.BracketIntermediate, 1400, true},
		{"intermediate rejects upper boundary", roster.BracketIntermediate, 1700, false},
		{"advanced admits boundary", roster.BracketAdvanced, 1700, true},
		{"advanced rejects below", roster.BracketAdvanced, 1699, false},
		{"mixed admits anything", roster.BracketMixed, 900, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bracket.Admits(tt.mmr))
		})
	}
}

func TestSkillBracketValid(t *testing.T) {
	assert.True(t, roster.BracketMixed.Valid())
	assert.True(t, roster.BracketBeginner.Valid())
	assert.False(t, roster.SkillBracket("pro").Valid())
}
