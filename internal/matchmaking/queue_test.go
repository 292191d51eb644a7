package matchmaking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queueIDs(entries []QueueEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.UserID
	}
	return ids
}

func TestOrderQueue_FIFOByEnqueueTime(t *testing.T) {
	now := time.Unix(10000, 0)
	entries := []QueueEntry{
		{UserID: "c", EnqueuedAt: 9300},
		{UserID: "a", EnqueuedAt: 9100},
		{UserID: "b", EnqueuedAt: 9200},
	}

	ordered := orderQueue(entries, now, 10*time.Minute)
	assert.Equal(t, []string{"a", "b", "c"}, queueIDs(ordered))
}

func TestOrderQueue_PremiumPromotedPastBelowFloorOnly(t *testing.T) {
	now := time.Unix(10000, 0)
	floor := 10 * time.Minute
	entries := []QueueEntry{
		{UserID: "early", EnqueuedAt: now.Add(-20 * time.Minute).Unix()},
		{UserID: "vip", EnqueuedAt: now.Add(-15 * time.Minute).Unix(), Premium: true},
		{UserID: "late", EnqueuedAt: now.Add(-5 * time.Minute).Unix()},
	}

	// vip cleared the floor and ranks ahead of late, who has not, but never
	// passes early, who cleared it first.
	ordered := orderQueue(entries, now, floor)
	assert.Equal(t, []string{"early", "vip", "late"}, queueIDs(ordered))
}

func TestOrderQueue_PremiumBelowFloorStaysInPlace(t *testing.T) {
	now := time.Unix(10000, 0)
	floor := 10 * time.Minute
	entries := []QueueEntry{
		{UserID: "early", EnqueuedAt: now.Add(-8 * time.Minute).Unix()},
		{UserID: "vip", EnqueuedAt: now.Add(-5 * time.Minute).Unix(), Premium: true},
	}

	ordered := orderQueue(entries, now, floor)
	assert.Equal(t, []string{"early", "vip"}, queueIDs(ordered))
}

func TestOrderQueue_ClearedFloorKeepsFIFOAcrossPremiumFlag(t *testing.T) {
	now := time.Unix(100000, 0)
	floor := 10 * time.Minute
	entries := []QueueEntry{
		{UserID: "vip2", EnqueuedAt: now.Add(-12 * time.Minute).Unix(), Premium: true},
		{UserID: "vip1", EnqueuedAt: now.Add(-30 * time.Minute).Unix(), Premium: true},
		{UserID: "regular", EnqueuedAt: now.Add(-25 * time.Minute).Unix()},
	}

	// All three cleared the floor; premium grants no rank among them.
	ordered := orderQueue(entries, now, floor)
	assert.Equal(t, []string{"vip1", "regular", "vip2"}, queueIDs(ordered))
}

func TestOrderQueue_DerivesWaitingMinutes(t *testing.T) {
	now := time.Unix(100000, 0)
	entries := []QueueEntry{
		{UserID: "a", EnqueuedAt: now.Add(-151 * time.Second).Unix()},
	}

	ordered := orderQueue(entries, now, 10*time.Minute)
	require.Len(t, ordered, 1)
	assert.Equal(t, 2, ordered[0].WaitingMinutes)
}

func TestOrderQueue_DoesNotMutateInput(t *testing.T) {
	now := time.Unix(100000, 0)
	entries := []QueueEntry{
		{UserID: "b", EnqueuedAt: 200},
		{UserID: "a", EnqueuedAt: 100},
	}

	_ = orderQueue(entries, now, 10*time.Minute)
	assert.Equal(t, "b", entries[0].UserID)
}
