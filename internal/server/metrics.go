package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	gamesStarted  prometheus.Counter
	gamesFinished *prometheus.CounterVec
	moves         *prometheus.CounterVec
	sessions      prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "games_started_total",
			Help:      "Number of matches created.",
		}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "games_finished_total",
			Help:      "Number of matches finished, by result.",
		}, []string{"status"}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "moves_total",
			Help:      "Number of moves received, by action and result (ok or the error kind).",
		}, []string{"action", "result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "minesweeper",
			Name:      "sessions",
			Help:      "Number of matches currently kept in memory.",
		}),
	}
	reg.MustRegister(m.gamesStarted, m.gamesFinished, m.moves, m.sessions)
	return m
}
