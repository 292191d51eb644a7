package matchmaking

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mbergkvist/courtflow/internal/config"
	"github.com/mbergkvist/courtflow/internal/metrics"
	"github.com/mbergkvist/courtflow/internal/pubsub"
	"github.com/mbergkvist/courtflow/internal/rating"
	"github.com/mbergkvist/courtflow/internal/roster"
)

// Notifier defines the notification operations required by the engine.
// This keeps the matchmaking package decoupled from the main notifier interface.
type Notifier interface {
	SendMatchScheduled(match *Match, dryRun bool) error
	SendMatchStarted(match *Match, dryRun bool) error
	SendMatchCompleted(match *Match, ratings map[string]rating.SkillRating, dryRun bool) error
}

// Engine drives the matchmaking state machine. All mutating operations for
// one event serialize behind a per-event lock; operations on different
// events run in parallel. Nothing inside the critical section blocks on I/O
// other than the local database: notifications dispatch after commit.
type Engine struct {
	store    Store
	roster   roster.Store
	calc     rating.Calculator
	notifier Notifier
	pubsub   pubsub.PubSubClient
	metrics  metrics.Metrics

	premiumFloor      time.Duration
	estimatedDuration time.Duration

	// now is swappable for tests.
	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates a new Engine.
func NewEngine(store Store, rosterStore roster.Store, notifier Notifier, pubsubClient pubsub.PubSubClient, metricsSvc metrics.Metrics, cfg config.MatchmakingConfig) *Engine {
	return &Engine{
		store:             store,
		roster:            rosterStore,
		calc:              rating.NewCalculator(cfg.KFactor, cfg.DefaultMMR),
		notifier:          notifier,
		pubsub:            pubsubClient,
		metrics:           metricsSvc,
		premiumFloor:      cfg.PremiumWaitFloor,
		estimatedDuration: cfg.EstimatedMatchDuration,
		now:               time.Now,
		locks:             make(map[string]*sync.Mutex),
	}
}

// lockEvent acquires the per-event exclusion scope and returns its release func.
func (e *Engine) lockEvent(eventID string) func() {
	e.mu.Lock()
	lock, ok := e.locks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[eventID] = lock
	}
	e.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// getEvent resolves an event or reports NotFoundError.
func (e *Engine) getEvent(eventID string) (*roster.Event, error) {
	event, err := e.roster.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, NotFoundError("unknown event %s", eventID)
	}
	return event, nil
}

// requireHost resolves the event and checks host authority. It runs before
// the per-event lock is acquired, so unauthorized calls never contend for it.
func (e *Engine) requireHost(eventID, actorID string) (*roster.Event, error) {
	if actorID == "" {
		return nil, AuthorizationError("missing actor identity")
	}
	event, err := e.getEvent(eventID)
	if err != nil {
		return nil, err
	}
	if !e.roster.IsHost(eventID, actorID) {
		return nil, AuthorizationError("user %s is not a host of event %s", actorID, eventID)
	}
	return event, nil
}

// ConfigureCourts creates the numbered courts for an event.
func (e *Engine) ConfigureCourts(eventID string, count int, actorID string) error {
	if _, err := e.requireHost(eventID, actorID); err != nil {
		return err
	}
	unlock := e.lockEvent(eventID)
	defer unlock()
	return e.store.EnsureCourts(eventID, count)
}

// JoinQueue appends a checked-in participant to the event's waiting queue.
func (e *Engine) JoinQueue(eventID, userID string) error {
	event, err := e.getEvent(eventID)
	if err != nil {
		return err
	}
	if event.Status != roster.EventActive {
		return ConflictError("event %s has ended", eventID)
	}

	unlock := e.lockEvent(eventID)
	defer unlock()

	if err := e.store.Enqueue(eventID, userID, e.now()); err != nil {
		return err
	}
	e.metrics.IncQueueJoins()
	log.Info("Participant joined queue", "eventID", eventID, "userID", userID)
	return nil
}

// LeaveQueue removes a participant from the queue. Absence is a no-op.
func (e *Engine) LeaveQueue(eventID, userID string) error {
	if _, err := e.getEvent(eventID); err != nil {
		return err
	}

	unlock := e.lockEvent(eventID)
	defer unlock()

	if err := e.store.Dequeue(eventID, userID); err != nil {
		return err
	}
	e.metrics.IncQueueLeaves()
	return nil
}

// AssignCourt pulls two queued players onto an available court, producing a
// scheduled match. Host-only.
func (e *Engine) AssignCourt(eventID string, courtNumber int, playerA, playerB, actorID string) (*Match, error) {
	if _, err := e.requireHost(eventID, actorID); err != nil {
		return nil, err
	}

	unlock := e.lockEvent(eventID)
	defer unlock()

	estimated := int(e.estimatedDuration / time.Minute)
	match, err := e.store.AssignCourt(eventID, courtNumber, playerA, playerB, actorID, estimated, e.now())
	if err != nil {
		return nil, err
	}

	e.metrics.IncMatchesScheduled()
	log.Info("Match scheduled", "matchID", match.ID, "eventID", eventID, "court", courtNumber,
		"playerA", playerA, "playerB", playerB)
	e.dispatch(func() {
		if err := e.notifier.SendMatchScheduled(match, false); err != nil {
			log.Error("Failed to send match scheduled notification", "error", err, "matchID", match.ID)
		}
		e.publish(pubsub.EventMatchScheduled, match)
	})
	return match, nil
}

// StartMatch moves a scheduled match to ongoing. Host-only.
func (e *Engine) StartMatch(eventID, matchID, actorID string) (*Match, error) {
	if _, err := e.requireHost(eventID, actorID); err != nil {
		return nil, err
	}

	unlock := e.lockEvent(eventID)
	defer unlock()

	match, err := e.store.StartMatch(eventID, matchID, e.calc.DefaultMMR, e.now())
	if err != nil {
		return nil, err
	}

	e.metrics.IncMatchesStarted()
	log.Info("Match started", "matchID", matchID, "eventID", eventID, "court", match.CourtNumber)
	e.dispatch(func() {
		if err := e.notifier.SendMatchStarted(match, false); err != nil {
			log.Error("Failed to send match started notification", "error", err, "matchID", matchID)
		}
		e.publish(pubsub.EventMatchStarted, match)
	})
	return match, nil
}

// OverridePlayer substitutes one side of a match. While the match is
// scheduled any host may substitute; once it is ongoing only the event's
// primary host may, and the substitute's current rating replaces the
// pre-match snapshot for that side.
func (e *Engine) OverridePlayer(eventID, matchID, oldPlayer, newPlayer, reason, actorID string) (*Match, error) {
	if _, err := e.requireHost(eventID, actorID); err != nil {
		return nil, err
	}
	role, err := e.roster.RoleOf(eventID, actorID)
	if err != nil {
		return nil, err
	}

	unlock := e.lockEvent(eventID)
	defer unlock()

	current, err := e.store.GetMatch(eventID, matchID)
	if err != nil {
		return nil, err
	}
	if current.State == StateOngoing && role != roster.RoleHost {
		return nil, AuthorizationError("substituting into an ongoing match requires host override authority")
	}

	match, err := e.store.OverridePlayer(eventID, matchID, oldPlayer, newPlayer, reason, actorID, e.calc.DefaultMMR, e.now())
	if err != nil {
		return nil, err
	}
	log.Info("Player substituted", "matchID", matchID, "old", oldPlayer, "new", newPlayer, "reason", reason)
	return match, nil
}

// CompleteMatch finishes an ongoing match with a score, applying the Elo
// adjustment to both players as part of the same transaction. Host-only.
func (e *Engine) CompleteMatch(eventID, matchID string, score Score, actorID string) (*Match, map[string]rating.SkillRating, error) {
	if _, err := e.requireHost(eventID, actorID); err != nil {
		return nil, nil, err
	}
	if err := score.Validate(); err != nil {
		return nil, nil, err
	}

	unlock := e.lockEvent(eventID)
	defer unlock()

	began := e.now()
	match, ratings, err := e.store.CompleteMatch(eventID, matchID, score, score.Result(), e.calc, actorID, began)
	if err != nil {
		return nil, nil, err
	}

	e.metrics.IncMatchesCompleted()
	e.metrics.IncRatingUpdates()
	e.metrics.ObserveCompletionDuration(time.Since(began).Seconds())
	log.Info("Match completed", "matchID", matchID, "result", match.Result)
	e.dispatch(func() {
		if err := e.notifier.SendMatchCompleted(match, ratings, false); err != nil {
			log.Error("Failed to send match completed notification", "error", err, "matchID", matchID)
		}
		e.publish(pubsub.EventMatchCompleted, match)
		e.publish(pubsub.EventRatingUpdated, ratings)
	})
	return match, ratings, nil
}

// CancelMatch aborts a scheduled or ongoing match without touching ratings.
// Players are not re-enqueued; that is the host's call. Host-only.
func (e *Engine) CancelMatch(eventID, matchID, actorID string) (*Match, error) {
	if _, err := e.requireHost(eventID, actorID); err != nil {
		return nil, err
	}

	unlock := e.lockEvent(eventID)
	defer unlock()

	match, err := e.store.CancelMatch(eventID, matchID, actorID, e.now())
	if err != nil {
		return nil, err
	}
	e.metrics.IncMatchesCancelled()
	log.Info("Match cancelled", "matchID", matchID, "eventID", eventID)
	return match, nil
}

// EndEvent tears down an event's matchmaking state. Completed matches and
// applied ratings are untouched. Host-only.
func (e *Engine) EndEvent(eventID, actorID string) error {
	if _, err := e.requireHost(eventID, actorID); err != nil {
		return err
	}

	unlock := e.lockEvent(eventID)
	defer unlock()

	if err := e.store.RemoveEvent(eventID); err != nil {
		return err
	}
	if err := e.roster.EndEvent(eventID); err != nil {
		return err
	}
	log.Info("Event ended", "eventID", eventID)
	return nil
}

// dispatch runs outward notifications outside the critical section.
func (e *Engine) dispatch(fn func()) {
	go fn()
}

func (e *Engine) publish(topic pubsub.EventType, payload any) {
	if e.pubsub == nil {
		return
	}
	if err := e.pubsub.SendMessage(string(topic), payload); err != nil {
		log.Error("Failed to publish event", "error", err, "topic", topic)
	}
}
