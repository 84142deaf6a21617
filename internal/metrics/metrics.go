// Package metrics exposes server-side counters and gauges over Prometheus's
// text exposition format via an owned registry and promhttp handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server bundles every metric the engine and connection pool report.
type Server struct {
	registry *prometheus.Registry

	ConnectedSlots prometheus.Gauge
	PlayersJoined  prometheus.Counter
	GamesStarted   prometheus.Counter
	GamesEnded     prometheus.Counter
	TurnsEmitted   prometheus.Counter
	BombsExploded  prometheus.Counter
	ProtocolErrors prometheus.Counter
}

// New registers every metric against its own registry rather than the
// package-global default registry, so each server process owns an
// independent metric namespace.
func New() *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())

	factory := promauto.With(reg)
	s := &Server{
		ConnectedSlots: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bombit_connected_slots",
			Help: "Number of connection worker slots currently holding a live TCP connection.",
		}),
		PlayersJoined: factory.NewCounter(prometheus.CounterOpts{
			Name: "bombit_players_joined_total",
			Help: "Number of Join messages accepted into a roster.",
		}),
		GamesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bombit_games_started_total",
			Help: "Number of Lobby -> InGame transitions.",
		}),
		GamesEnded: factory.NewCounter(prometheus.CounterOpts{
			Name: "bombit_games_ended_total",
			Help: "Number of InGame -> Lobby transitions.",
		}),
		TurnsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bombit_turns_emitted_total",
			Help: "Number of turns broadcast by the engine.",
		}),
		BombsExploded: factory.NewCounter(prometheus.CounterOpts{
			Name: "bombit_bombs_exploded_total",
			Help: "Number of BombExploded events emitted.",
		}),
		ProtocolErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "bombit_protocol_errors_total",
			Help: "Number of connections torn down due to a wire protocol violation.",
		}),
	}
	s.registry = reg
	return s
}

// Handler serves the Prometheus text exposition format for this server's
// registry, wired by cmd/server at /metrics.
func (s *Server) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
