package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchesScheduled   prometheus.Counter
	MatchesStarted     prometheus.Counter
	MatchesCompleted   prometheus.Counter
	MatchesCancelled   prometheus.Counter
	RatingUpdates      prometheus.Counter
	QueueJoins         prometheus.Counter
	QueueLeaves        prometheus.Counter
	CompletionDuration prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
