package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa os coletores do serviço. Um *Metrics nil é válido e não registra nada.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	pocTransitions    *prometheus.CounterVec
	pocCleanupRemoved prometheus.Counter
	healthScores      *prometheus.CounterVec
	jobRuns           *prometheus.CounterVec
	jobDuration       *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_http_requests_total",
			Help: "Total de requisições HTTP por rota e status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aegis_http_request_duration_seconds",
			Help:    "Duração das requisições HTTP por rota.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		pocTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_poc_transitions_total",
			Help: "Transições de ciclo de vida aplicadas a POCs.",
		}, []string{"transition"}),
		pocCleanupRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aegis_poc_cleanup_removed_total",
			Help: "POCs expirados removidos pela limpeza.",
		}),
		healthScores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_health_scores_total",
			Help: "Cálculos de saúde persistidos por faixa de risco.",
		}, []string{"risk_tier"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_job_runs_total",
			Help: "Execuções de jobs agendados por resultado.",
		}, []string{"job", "result"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aegis_job_duration_seconds",
			Help:    "Duração das execuções de jobs agendados.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.httpRequestsTotal,
		m.httpDuration,
		m.pocTransitions,
		m.pocCleanupRemoved,
		m.healthScores,
		m.jobRuns,
		m.jobDuration,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler conta requisições e mede a duração de uma rota
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry expõe o registro para testes e coletores adicionais
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) POCTransition(transition string) {
	if m == nil {
		return
	}
	m.pocTransitions.WithLabelValues(transition).Inc()
}

func (m *Metrics) POCCleanup(removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.pocCleanupRemoved.Add(float64(removed))
}

func (m *Metrics) HealthScored(riskTier string) {
	if m == nil {
		return
	}
	m.healthScores.WithLabelValues(riskTier).Inc()
}

func (m *Metrics) JobRun(job string, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.jobRuns.WithLabelValues(job, result).Inc()
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}
