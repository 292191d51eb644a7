package http

import (
	"net/http"

	"github.com/mbergkvist/courtflow/internal/config"
	"github.com/mbergkvist/courtflow/internal/matchmaking"
	"github.com/mbergkvist/courtflow/internal/metrics"
	"github.com/mbergkvist/courtflow/internal/notifier"
	"github.com/mbergkvist/courtflow/internal/pubsub"
	"github.com/mbergkvist/courtflow/internal/rating"
	"github.com/mbergkvist/courtflow/internal/roster"
	"golang.org/x/time/rate"
)

// requestsPerSecond bounds the whole API surface; the engine serializes per
// event anyway, so this only guards against runaway clients.
const requestsPerSecond = 50

func NewServer(engine *matchmaking.Engine, rosterStore roster.Store, ratingStore rating.Store, notifier notifier.Notifier, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Engine:         engine,
		Roster:         rosterStore,
		Ratings:        ratingStore,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future.
	limit := rateLimitMiddleware(rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond*2))

	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("/events/create", Chain(s.CreateEventHandler(), paramsMiddleware, identityMiddleware, limit))
	s.Router.Handle("/events/join", Chain(s.JoinEventHandler(), paramsMiddleware, identityMiddleware, limit))
	s.Router.Handle("/events/checkin", Chain(s.CheckInHandler(), paramsMiddleware, identityMiddleware, limit))
	s.Router.Handle("/events/status", Chain(s.EventStatusHandler(), paramsMiddleware, identityMiddleware, limit))
	s.Router.Handle("/events/assign", Chain(s.AssignCourtHandler(), paramsMiddleware, identityMiddleware, limit))
	s.Router.Handle("/events/end", Chain(s.EndEventHandler(), paramsMiddleware, identityMiddleware, limit))

	s.Router.Handle("/matches/start", Chain(s.StartMatchHandler(), paramsMiddleware, identityMiddleware, limit))
	s.Router.Handle("/matches/complete", Chain(s.CompleteMatchHandler(), paramsMiddleware, identityMiddleware, limit))
	s.Router.Handle("/matches/cancel", Chain(s.CancelMatchHandler(), paramsMiddleware, identityMiddleware, limit))
	s.Router.Handle("/matches/override-player", Chain(s.OverridePlayerHandler(), paramsMiddleware, identityMiddleware, limit))

	s.Router.Handle("/queue/join", Chain(s.JoinQueueHandler(), paramsMiddleware, identityMiddleware, limit))
	s.Router.Handle("/queue/leave", Chain(s.LeaveQueueHandler(), paramsMiddleware, identityMiddleware, limit))

	s.Router.Handle("/matchmaking/status", Chain(s.MatchmakingStatusHandler(), paramsMiddleware, identityMiddleware, limit))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware, identityMiddleware, limit))
	s.Router.Handle("/notify/leaderboard", Chain(s.NotifyLeaderboardHandler(), paramsMiddleware, identityMiddleware, limit))
	s.Router.Handle("/notify/match-completed", Chain(s.NotifyMatchCompletedHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
