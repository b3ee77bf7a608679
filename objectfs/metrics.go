package objectfs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "objectfs",
		Subsystem: "fs",
		Name:      "operations_total",
		Help:      "Filesystem operations received, by entry point",
	}, []string{"op"})

	metricNoops = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "objectfs",
		Subsystem: "fs",
		Name:      "noop_total",
		Help:      "Operations satisfied without touching the backing store",
	}, []string{"op"})

	metricDeletedKeys = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "objectfs",
		Subsystem: "fs",
		Name:      "deleted_keys_total",
		Help:      "Individual key deletes attempted by recursive deletes",
	})
)
