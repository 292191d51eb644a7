package matchmaking

// CourtStatusView is the compact court/queue view served to hosts at the desk.
type CourtStatusView struct {
	EventID       string       `json:"event_id"`
	Courts        []Court      `json:"courts"`
	Queue         []QueueEntry `json:"queue"`
	ActiveMatches int          `json:"active_matches"`
}

// CourtStatus returns the courts, queue, and active match count for an event.
// Read-only; runs concurrently with writers and may be one operation stale.
func (e *Engine) CourtStatus(eventID string) (*CourtStatusView, error) {
	if _, err := e.getEvent(eventID); err != nil {
		return nil, err
	}

	courts, err := e.store.ListCourts(eventID)
	if err != nil {
		return nil, err
	}
	queue, err := e.store.QueueSnapshot(eventID, e.now(), e.premiumFloor)
	if err != nil {
		return nil, err
	}
	ongoing, err := e.store.Matches(eventID, StateOngoing)
	if err != nil {
		return nil, err
	}

	return &CourtStatusView{
		EventID:       eventID,
		Courts:        courts,
		Queue:         queue,
		ActiveMatches: len(ongoing),
	}, nil
}

// Status returns the full matchmaking aggregate for an event.
func (e *Engine) Status(eventID string) (*EventStatus, error) {
	event, err := e.getEvent(eventID)
	if err != nil {
		return nil, err
	}

	courts, err := e.store.ListCourts(eventID)
	if err != nil {
		return nil, err
	}
	queue, err := e.store.QueueSnapshot(eventID, e.now(), e.premiumFloor)
	if err != nil {
		return nil, err
	}
	scheduled, err := e.store.Matches(eventID, StateScheduled)
	if err != nil {
		return nil, err
	}
	ongoing, err := e.store.Matches(eventID, StateOngoing)
	if err != nil {
		return nil, err
	}
	completed, err := e.store.Matches(eventID, StateCompleted)
	if err != nil {
		return nil, err
	}
	canForm, err := e.store.CanFormMatch(eventID, event.SkillBracket, event.SportID, e.calc.DefaultMMR)
	if err != nil {
		return nil, err
	}

	return &EventStatus{
		EventID:       eventID,
		Courts:        courts,
		Queue:         queue,
		Scheduled:     scheduled,
		Ongoing:       ongoing,
		Completed:     completed,
		WaitingCount:  len(queue),
		ActiveMatches: len(ongoing),
		CanFormMatch:  canForm,
	}, nil
}

// UserStatus returns one user's live matchmaking state across all events.
func (e *Engine) UserStatus(userID string) (*UserStatus, error) {
	if userID == "" {
		return nil, ValidationError("user id is required")
	}

	queued, err := e.store.UserQueueEntries(userID, e.now(), e.premiumFloor)
	if err != nil {
		return nil, err
	}
	live, err := e.store.UserLiveMatches(userID)
	if err != nil {
		return nil, err
	}

	return &UserStatus{
		UserID:      userID,
		QueuedIn:    queued,
		LiveMatches: live,
	}, nil
}
