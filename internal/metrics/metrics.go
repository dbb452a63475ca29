package metrics

import (
	"database/sql"
	"time"

	"github.com/dlmiddlecote/sqlstats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/signing/store"
)

const namespace = "docsign"

// Service owns the prometheus registry exposed on /metrics.
type Service struct {
	Registry *prometheus.Registry

	backendRequests  *prometheus.HistogramVec
	sessionStatuses  *prometheus.CounterVec
	expiryRuns       prometheus.Counter
	rateLimitedCalls *prometheus.CounterVec
}

// New creates the registry with the process and Go collectors. A database
// statistics collector is added when db is not nil.
func New(cfg config.Server, db *sql.DB) (*Service, error) {
	s := &Service{
		Registry: prometheus.NewRegistry(),
		backendRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Duration of signing backend requests by operation and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
		sessionStatuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "status_total",
			Help:      "Number of signing sessions that entered a status.",
		}, []string{"status"}),
		expiryRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "expiry_runs_total",
			Help:      "Number of expiry worker runs.",
		}),
		rateLimitedCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Number of requests rejected by the rate limiter.",
		}, []string{"path"}),
	}

	collectorsToRegister := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.backendRequests,
		s.sessionStatuses,
		s.expiryRuns,
		s.rateLimitedCalls,
	}

	if db != nil {
		collectorsToRegister = append(collectorsToRegister, sqlstats.NewStatsCollector(cfg.Store.Database.Database, db))
	}

	for _, c := range collectorsToRegister {
		if err := s.Registry.Register(c); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// ObserveBackendRequest records a signing backend call.
func (s *Service) ObserveBackendRequest(operation string, outcome string, duration time.Duration) {
	s.backendRequests.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

// ObserveStatus counts a session entering status.
func (s *Service) ObserveStatus(status store.Status) {
	s.sessionStatuses.WithLabelValues(status.String()).Inc()
}

// ObserveExpiryRun counts one run of the expiry worker.
func (s *Service) ObserveExpiryRun() {
	s.expiryRuns.Inc()
}

// ObserveRateLimited counts a rejected request.
func (s *Service) ObserveRateLimited(path string) {
	s.rateLimitedCalls.WithLabelValues(path).Inc()
}
