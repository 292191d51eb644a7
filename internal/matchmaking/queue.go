package matchmaking

import (
	"sort"
	"time"
)

// orderQueue derives the display order of a queue. The base order is FIFO by
// enqueue time. A premium participant whose wait has reached the floor is
// promoted ahead of entries still below the floor, never past another entry
// that has also cleared it, so relative FIFO order holds within each class.
// Positions are never stored, so removals from the middle need no renumbering.
func orderQueue(entries []QueueEntry, now time.Time, premiumFloor time.Duration) []QueueEntry {
	ordered := make([]QueueEntry, len(entries))
	copy(ordered, entries)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EnqueuedAt < ordered[j].EnqueuedAt
	})

	cleared := make([]QueueEntry, 0, len(ordered))
	below := make([]QueueEntry, 0, len(ordered))
	for _, e := range ordered {
		waited := now.Sub(time.Unix(e.EnqueuedAt, 0))
		if waited < 0 {
			waited = 0
		}
		e.WaitingMinutes = int(waited / time.Minute)
		if waited >= premiumFloor {
			cleared = append(cleared, e)
		} else {
			below = append(below, e)
		}
	}
	return append(cleared, below...)
}
