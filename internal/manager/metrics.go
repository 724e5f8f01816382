package manager

import (
	"github.com/prometheus/client_golang/prometheus"

	"devplace/internal/accel"
)

var (
	placementsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devplace",
			Subsystem: "placement",
			Name:      "total",
			Help:      "Total number of successful model placements",
		},
		[]string{"accelerator", "dtype"},
	)

	placementErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "devplace",
			Subsystem: "placement",
			Name:      "errors_total",
			Help:      "Total number of failed model placements",
		},
	)

	batchSizeGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "devplace",
			Name:      "batch_size",
			Help:      "Most recently estimated inference batch size",
		},
	)
)

func init() {
	prometheus.MustRegister(placementsCounter, placementErrors, batchSizeGauge)
}

// accelLabel keeps the label set small: xla:0, xla:1 ... collapse to xla.
func accelLabel(d accel.Device) string {
	return string(d.Kind())
}
