package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	LobbyPlayers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lobby_players",
		Help: "Players currently waiting in the lobby",
	})
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sessions_active",
		Help: "Live game sessions",
	})
	SessionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sessions_started_total",
		Help: "Total game sessions created",
	})
	GamesEnded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "games_ended_total",
		Help: "Total games ended, by outcome",
	}, []string{"outcome"})
	TasksCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tasks_completed_total",
		Help: "Tasks completed before expiry",
	})
	TasksExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tasks_expired_total",
		Help: "Tasks that expired unexecuted",
	})

	RLRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limiter_requests_total",
		Help: "Total requests seen by the rate limiter",
	}, []string{"endpoint"})
	RLBlocked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limiter_blocked_total",
		Help: "Total requests blocked by the rate limiter",
	}, []string{"endpoint"})
)

func init() {
	prometheus.MustRegister(
		LobbyPlayers,
		SessionsActive,
		SessionsStarted,
		GamesEnded,
		TasksCompleted,
		TasksExpired,
		RLRequests,
		RLBlocked,
	)
}
