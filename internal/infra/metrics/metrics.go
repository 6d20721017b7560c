package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritas_api_requests_total",
			Help: "Total number of requests to the Veritas backend",
		},
		[]string{"endpoint", "status"},
	)

	APIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "veritas_api_request_duration_seconds",
			Help:    "Duration of requests to the Veritas backend",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"endpoint"},
	)

	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritas_submissions_total",
			Help: "Test submissions by outcome and trigger",
		},
		[]string{"outcome", "trigger"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "veritas_active_sessions",
			Help: "Test sessions currently in progress",
		},
	)

	BotUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritas_bot_updates_total",
			Help: "Telegram updates handled, by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(APIRequests)
	prometheus.MustRegister(APIDuration)
	prometheus.MustRegister(Submissions)
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(BotUpdates)
}

// Handler отдает метрики в формате Prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}
