package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route, method and status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moodlift_http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration tracks request latency
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moodlift_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	}, []string{"route", "method"})

	// StreakUpdatesTotal counts check-ins by outcome: created, continued, broken, unchanged
	StreakUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moodlift_streak_updates_total",
		Help: "Streak check-ins by outcome",
	}, []string{"outcome"})

	// GameSessionsSaved counts persisted game sessions
	GameSessionsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moodlift_game_sessions_saved_total",
		Help: "Game sessions persisted",
	})

	// AuthCallbacksTotal counts OAuth callbacks by final state
	AuthCallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moodlift_auth_callbacks_total",
		Help: "OAuth callbacks by final state",
	}, []string{"state"})

	// SideEffectFailures counts swallowed failures of non-critical work such as activity logging
	SideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moodlift_side_effect_failures_total",
		Help: "Non-critical failures that were logged and swallowed",
	}, []string{"effect"})
)
