package database

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	dbQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Latency of record store operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"},
	)
	dbErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "db_errors_total", Help: "Count of record store errors by class"},
		[]string{"op", "class"},
	)
)

func init() { prometheus.MustRegister(dbQueryDuration, dbErrorsTotal) }

// Observe 计时并按类别统计错误，原样返回 fn 的错误
func Observe(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"
	if err != nil {
		status = "error"
		dbErrorsTotal.WithLabelValues(op, classify(err)).Inc()
	}
	dbQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}
