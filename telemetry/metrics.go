// Package telemetry registers the Prometheus metrics for command handling.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	CommandsHandled *prometheus.CounterVec
	CommandErrors   *prometheus.CounterVec
	TagInvocations  prometheus.Counter
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "qtbot_commands_handled_total",
			Help: "Commands dispatched to a handler",
		}, []string{"command"})
		CommandErrors = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "qtbot_command_errors_total",
			Help: "Handler invocations that returned an error",
		}, []string{"command"})
		TagInvocations = promauto.NewCounter(prometheus.CounterOpts{
			Name: "qtbot_tag_invocations_total",
			Help: "Successful tag fetches",
		})
		CacheHits = promauto.NewCounter(prometheus.CounterOpts{
			Name: "qtbot_weather_cache_hits_total",
			Help: "Weather lookups served from redis",
		})
		CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
			Name: "qtbot_weather_cache_misses_total",
			Help: "Weather lookups that went to the scraper",
		})
	})
}

// HandledCommand bumps the per command counter if metrics are initialized.
func HandledCommand(name string) {
	if CommandsHandled != nil {
		CommandsHandled.WithLabelValues(name).Inc()
	}
}

// CommandError bumps the per command error counter if metrics are initialized.
func CommandError(name string) {
	if CommandErrors != nil {
		CommandErrors.WithLabelValues(name).Inc()
	}
}

func TagInvoked() {
	if TagInvocations != nil {
		TagInvocations.Inc()
	}
}

func CacheHit() {
	if CacheHits != nil {
		CacheHits.Inc()
	}
}

func CacheMiss() {
	if CacheMisses != nil {
		CacheMisses.Inc()
	}
}
