package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type registry struct {
	ops         *prometheus.CounterVec
	ledgerOps   *prometheus.CounterVec
	httpReqs    *prometheus.CounterVec
	httpLat     *prometheus.HistogramVec
	throttled   *prometheus.CounterVec
	authDenied  *prometheus.CounterVec
	coinsMinted prometheus.Counter
}

var (
	once sync.Once
	reg  *registry
)

func get() *registry {
	once.Do(func() {
		reg = &registry{
			ops: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "virtualpet",
				Subsystem: "engine",
				Name:      "operations_total",
				Help:      "Rule engine operations segmented by module, operation and outcome.",
			}, []string{"module", "op", "outcome"}),
			ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "virtualpet",
				Subsystem: "ledger",
				Name:      "calls_total",
				Help:      "Ledger mint/burn calls segmented by kind and outcome.",
			}, []string{"kind", "outcome"}),
			httpReqs: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "virtualpet",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests segmented by method, route and status.",
			}, []string{"method", "route", "status"}),
			httpLat: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "virtualpet",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for HTTP handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "route"}),
			throttled: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "virtualpet",
				Subsystem: "http",
				Name:      "throttled_total",
				Help:      "Requests rejected by the per-identity throttle.",
			}, []string{"method"}),
			authDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "virtualpet",
				Subsystem: "http",
				Name:      "auth_rejected_total",
				Help:      "Bearer tokens rejected by the verifier, by reason.",
			}, []string{"reason"}),
			coinsMinted: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "virtualpet",
				Subsystem: "economy",
				Name:      "coins_minted_total",
				Help:      "PETCOIN units minted as daily rewards.",
			}),
		}
		prometheus.MustRegister(
			reg.ops,
			reg.ledgerOps,
			reg.httpReqs,
			reg.httpLat,
			reg.throttled,
			reg.authDenied,
			reg.coinsMinted,
		)
	})
	return reg
}

// ObserveOp registra el resultado de una operación del motor de reglas.
func ObserveOp(module, op, outcome string) {
	get().ops.WithLabelValues(module, op, outcome).Inc()
}

func ObserveLedger(kind, outcome string) {
	get().ledgerOps.WithLabelValues(kind, outcome).Inc()
}

func CoinsMinted(n uint64) {
	get().coinsMinted.Add(float64(n))
}

func ObserveHTTP(method, route string, status int, d time.Duration) {
	r := get()
	if route == "" {
		route = "unmatched"
	}
	r.httpReqs.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpLat.WithLabelValues(method, route).Observe(d.Seconds())
}

func Throttled(method string) {
	get().throttled.WithLabelValues(method).Inc()
}

func AuthRejected(reason string) {
	get().authDenied.WithLabelValues(reason).Inc()
}

// Handler expone /metrics.
func Handler() http.Handler {
	get()
	return promhttp.Handler()
}
