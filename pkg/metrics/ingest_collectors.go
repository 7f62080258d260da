package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placement_ingest_rows_total",
		Help: "Spreadsheet rows processed by the ingestion pipeline.",
	}, []string{"sheet", "outcome"})

	ingestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "placement_ingest_batch_seconds",
		Help:    "Wall time of one batch ingestion run.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)

func RecordIngestRows(sheet string, added, skipped int) {
	ingestRows.WithLabelValues(sheet, "added").Add(float64(added))
	ingestRows.WithLabelValues(sheet, "skipped").Add(float64(skipped))
}

func ObserveIngestDuration(d time.Duration) {
	ingestDuration.Observe(d.Seconds())
}
