package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Recomputes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movement", Name: "recomputes_total", Help: "Successful record recomputations",
	}, []string{"kind"})
	RecomputeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movement", Name: "recompute_errors_total", Help: "Failed record recomputations",
	}, []string{"kind"})
	RecomputeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "movement", Name: "recompute_duration_seconds", Help: "Record recomputation latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	ManualAdjustments = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "movement", Name: "manual_adjustments_total", Help: "Manual total overrides",
	})
	DirtyRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "movement", Name: "dirty_records", Help: "Records awaiting reconciliation",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "movement", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(Recomputes, RecomputeErrors, RecomputeDuration, ManualAdjustments, DirtyRecords, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
