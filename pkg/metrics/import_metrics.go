package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftissue_imports_total",
		Help: "Completed import runs by mode and status.",
	}, []string{"mode", "status"})

	ImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftissue_import_rows_total",
		Help: "Rows processed by imports, by outcome.",
	}, []string{"outcome"})

	ImportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "giftissue_import_duration_seconds",
		Help:    "Wall time of a full import run.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)

// ObserveSummary records the per-outcome row counters of one finished import.
func ObserveSummary(mode, status string, found, imported, dupInFile, dupExisting, missing int) {
	ImportsTotal.WithLabelValues(mode, status).Inc()
	ImportRowsTotal.WithLabelValues("found").Add(float64(found))
	ImportRowsTotal.WithLabelValues("imported").Add(float64(imported))
	ImportRowsTotal.WithLabelValues("duplicate_in_file").Add(float64(dupInFile))
	ImportRowsTotal.WithLabelValues("duplicate_existing").Add(float64(dupExisting))
	ImportRowsTotal.WithLabelValues("missing_employee_number").Add(float64(missing))
}
