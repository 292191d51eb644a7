package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchScheduled EventType = "match-scheduled"
	EventMatchStarted   EventType = "match-started"
	EventMatchCompleted EventType = "match-completed"
	EventRatingUpdated  EventType = "rating-updated"
)
