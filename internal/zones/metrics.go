package zones

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultMatched   = "matched"
	resultUnmatched = "unmatched"
	resultInvalid   = "invalid"
)

var (
	resolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zone_resolve_total",
		Help: "Zone lookups served over HTTP, by outcome.",
	}, []string{"result"})

	snapshotReloadSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "zone_snapshot_reload_seconds",
		Help:    "Time spent loading the active zone list from storage.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})
)
