package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg              *prometheus.Registry
	Runs             *prometheus.CounterVec
	RunDurationSec   *prometheus.HistogramVec
	FilesLoaded      *prometheus.CounterVec
	RowsWritten      *prometheus.CounterVec
	PriceWarRemovals prometheus.Counter
	EnrichSkipped    prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_runs_total",
		Help: "Tamamlanan mutabakat çalıştırmaları",
	}, []string{"kind", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reconcile_run_duration_seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"kind"})
	files := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_files_loaded_total",
	}, []string{"kind", "result"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_rows_written_total",
	}, []string{"kind"})
	removals := prometheus.NewCounter(prometheus.CounterOpts{Name: "restock_price_war_removals_total"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "restock_enrichment_skipped_total"})

	r.MustRegister(runs, duration, files, rows, removals, skipped)
	return &Registry{
		reg:              r,
		Runs:             runs,
		RunDurationSec:   duration,
		FilesLoaded:      files,
		RowsWritten:      rows,
		PriceWarRemovals: removals,
		EnrichSkipped:    skipped,
	}
}

// ObserveRun: çalıştırma sonucu ve süresi. r nil ise hiçbir şey yapmaz.
func (r *Registry) ObserveRun(kind string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.Runs.WithLabelValues(kind, status).Inc()
	r.RunDurationSec.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveFiles: okunan ve okunamayan dosya sayıları
func (r *Registry) ObserveFiles(kind string, loaded, failed int) {
	if r == nil {
		return
	}
	r.FilesLoaded.WithLabelValues(kind, "ok").Add(float64(loaded))
	r.FilesLoaded.WithLabelValues(kind, "failed").Add(float64(failed))
}

func (r *Registry) ObserveRows(kind string, rows int) {
	if r == nil {
		return
	}
	r.RowsWritten.WithLabelValues(kind).Add(float64(rows))
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// Gatherer: testler ve ek exporter'lar için
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
