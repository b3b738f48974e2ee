package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for one
// pipeline run. Each Metrics owns its registry: a run is a batch process,
// so metrics are exported by dumping the registry to a textfile for the
// node_exporter textfile collector rather than by serving /metrics.
type Metrics struct {
	registry *prometheus.Registry

	RowsRead       prometheus.Counter
	RecordsLoaded  prometheus.Counter
	RowsSkipped    *prometheus.CounterVec // labels: reason={bad_row,no_id}
	WindowFiltered prometheus.Counter
	MissingField   *prometheus.CounterVec // labels: field={date,cost,coords}

	ViewExcluded *prometheus.CounterVec // labels: view={time,grid,category,bracket}

	StageDuration     *prometheus.HistogramVec // labels: stage={load,aggregate,render}
	ArtifactsRendered *prometheus.CounterVec   // labels: kind={chart,map,report}
	DatasetPermits    prometheus.Gauge

	LastRunUnix    prometheus.Gauge // completion time, unix seconds
	LastRunSuccess prometheus.Gauge // 1 on success, 0 on failure
}

// NewMetrics creates all pipeline metrics registered on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "permits",
			Name:      "rows_read_total",
			Help:      "Total CSV data rows read from the source, excluding the header.",
		}),
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "permits",
			Name:      "records_loaded_total",
			Help:      "Total permit records kept in the dataset.",
		}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "permits",
			Name:      "rows_skipped_total",
			Help:      "Rows dropped at load by reason.",
		}, []string{"reason"}),
		WindowFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "permits",
			Name:      "records_window_filtered_total",
			Help:      "Records dropped for falling before the recency cutoff.",
		}),
		MissingField: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "permits",
			Name:      "records_missing_field_total",
			Help:      "Kept records lacking an optional field, by field.",
		}, []string{"field"}),
		ViewExcluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "permits",
			Name:      "view_excluded_records_total",
			Help:      "Records excluded from a view for lacking its key or measure field.",
		}, []string{"view"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "permits",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
		ArtifactsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "permits",
			Name:      "artifacts_rendered_total",
			Help:      "Output files written, by kind.",
		}, []string{"kind"}),
		DatasetPermits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "permits",
			Name:      "dataset_permits",
			Help:      "Permit records in the loaded dataset.",
		}),
		LastRunUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "permits",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished, success or not.",
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "permits",
			Name:      "last_run_success",
			Help:      "Whether the last run succeeded: 1 yes, 0 no.",
		}),
	}

	m.registry.MustRegister(
		m.RowsRead,
		m.RecordsLoaded,
		m.RowsSkipped,
		m.WindowFiltered,
		m.MissingField,
		m.ViewExcluded,
		m.StageDuration,
		m.ArtifactsRendered,
		m.DatasetPermits,
		m.LastRunUnix,
		m.LastRunSuccess,
	)

	return m
}

// FinishRun stamps the run outcome gauges. Textfile consumers alert on a
// stale timestamp or a zero success value.
func (m *Metrics) FinishRun(success bool) {
	m.LastRunUnix.SetToCurrentTime()
	if success {
		m.LastRunSuccess.Set(1)
		return
	}
	m.LastRunSuccess.Set(0)
}

// WriteTextfile writes every metric to path in the Prometheus text exposition
// format, atomically, as expected by the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
