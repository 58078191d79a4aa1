// Package metrics expone las métricas Prometheus del servicio y el
// middleware de instrumentación HTTP.
package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/middlewares"
)

var (
	metricsOnce sync.Once
	metricsErr  error

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	authzDecisionsTotal    *prometheus.CounterVec
	unlockEvaluationsTotal *prometheus.CounterVec
	recalcUpdatesTotal     prometheus.Counter
)

// Config agrupa dependencias para exponer /metrics.
type Config struct {
	Registry prometheus.Registerer
	Pool     func() *pgxpool.Pool
}

// Register inicializa las métricas y devuelve el handler para /metrics.
func Register(cfg Config) (http.Handler, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"})

		authzDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Decisiones de autorización por resultado",
		}, []string{"result"}) // result: allowed|denied

		unlockEvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unlock_evaluations_total",
			Help: "Evaluaciones de condiciones de desbloqueo por resultado",
		}, []string{"result"}) // result: unlocked|locked

		recalcUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recalc_completions_updated_total",
			Help: "Completions actualizadas por la utilidad de recálculo",
		})

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration, httpInflight,
			authzDecisionsTotal, unlockEvaluationsTotal, recalcUpdatesTotal,
		} {
			if err := registerCollector(registry, c); err != nil {
				metricsErr = err
				return
			}
		}
	})
	if metricsErr != nil {
		return nil, metricsErr
	}

	if cfg.Pool != nil {
		if err := registerCollector(registry, newPoolCollector(cfg.Pool)); err != nil {
			return nil, err
		}
	}

	// Gatherer global por compatibilidad: las métricas viven allí.
	return promhttp.Handler(), nil
}

// ObserveAuthzDecision registra una decisión de autorización.
func ObserveAuthzDecision(allowed bool) {
	if authzDecisionsTotal == nil {
		return
	}
	result := "denied"
	if allowed {
		result = "allowed"
	}
	authzDecisionsTotal.WithLabelValues(result).Inc()
}

// ObserveUnlock registra el resultado de una evaluación de desbloqueo.
func ObserveUnlock(unlocked bool) {
	if unlockEvaluationsTotal == nil {
		return
	}
	result := "locked"
	if unlocked {
		result = "unlocked"
	}
	unlockEvaluationsTotal.WithLabelValues(result).Inc()
}

// ObserveRecalcUpdates suma completions actualizadas por el recálculo.
func ObserveRecalcUpdates(n int) {
	if recalcUpdatesTotal == nil || n <= 0 {
		return
	}
	recalcUpdatesTotal.Add(float64(n))
}

// WithMetrics instrumenta requests HTTP (contadores, latencia, inflight).
func WithMetrics() middlewares.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpRequestsTotal == nil {
				next.ServeHTTP(w, r)
				return
			}

			method := strings.ToUpper(r.Method)
			pathLabel := normalizePath(r.URL.Path)

			httpInflight.WithLabelValues(method, pathLabel).Inc()
			start := time.Now()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				httpInflight.WithLabelValues(method, pathLabel).Dec()
				httpRequestDuration.WithLabelValues(method, pathLabel).Observe(time.Since(start).Seconds())
				httpRequestsTotal.WithLabelValues(method, pathLabel, strconv.Itoa(rec.status)).Inc()
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.status = http.StatusOK
		s.wroteHeader = true
	}
	return s.ResponseWriter.Write(b)
}

// uuidRe colapsa ids en el label de path para acotar cardinalidad.
var uuidRe = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

func normalizePath(p string) string {
	return uuidRe.ReplaceAllString(p, ":id")
}

func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// poolCollector expone gauges del pool de PostgreSQL.
type poolCollector struct {
	pool func() *pgxpool.Pool

	acquiredDesc *prometheus.Desc
	idleDesc     *prometheus.Desc
	totalDesc    *prometheus.Desc
}

func newPoolCollector(pool func() *pgxpool.Pool) *poolCollector {
	return &poolCollector{
		pool:         pool,
		acquiredDesc: prometheus.NewDesc("pg_pool_acquired", "Conexiones adquiridas", nil, nil),
		idleDesc:     prometheus.NewDesc("pg_pool_idle", "Conexiones inactivas", nil, nil),
		totalDesc:    prometheus.NewDesc("pg_pool_total", "Conexiones totales", nil, nil),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredDesc
	ch <- c.idleDesc
	ch <- c.totalDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	p := c.pool()
	if p == nil {
		return
	}
	st := p.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(st.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(st.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(st.TotalConns()))
}
