package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	RecordsConsumed prometheus.Counter
	PointsProduced  prometheus.Counter
	TransformErrors prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Coordinate conversion outcomes.
	Conversions *prometheus.CounterVec // labels: axis={longitude,latitude}, outcome={success,missing,format,numeric,range,axis_range,other}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "survey_etl",
			Name:      "records_consumed_total",
			Help:      "Total raw records read from the source topic.",
		}),
		PointsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "survey_etl",
			Name:      "points_produced_total",
			Help:      "Total converted survey points written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "survey_etl",
			Name:      "transform_errors_total",
			Help:      "Total records skipped because transformation failed.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "survey_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "survey_etl",
			Name:      "batch_size",
			Help:      "Number of records per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "survey_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "survey_etl",
			Name:      "conversions_total",
			Help:      "DMS coordinate conversions by axis and outcome.",
		}, []string{"axis", "outcome"}),
	}

	prometheus.MustRegister(
		m.RecordsConsumed,
		m.PointsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.Conversions,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsConsumed:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "survey_etl", Name: "records_consumed_total"}),
		PointsProduced:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "survey_etl", Name: "points_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "survey_etl", Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "survey_etl", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "survey_etl", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "survey_etl", Name: "batch_processing_duration_seconds"}),
		Conversions:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "survey_etl", Name: "conversions_total"}, []string{"axis", "outcome"}),
	}
}
