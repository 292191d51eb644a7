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
)

type Server struct {
	Engine         *matchmaking.Engine
	Roster         roster.Store
	Ratings        rating.Store
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
