package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesScheduled()
	IncMatchesStarted()
	IncMatchesCompleted()
	IncMatchesCancelled()
	IncRatingUpdates()
	IncQueueJoins()
	IncQueueLeaves()
	ObserveCompletionDuration(seconds float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(seconds float64)
}
