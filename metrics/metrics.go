package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	DocumentsExtracted *prometheus.CounterVec
	SchedulesComputed  prometheus.Counter
	Exports            *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DocumentsExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_appraisal_documents_extracted_total",
			Help: "Total number of application documents run through the extractor, by text source",
		}, []string{"source"}),
		SchedulesComputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "loan_appraisal_schedules_computed_total",
			Help: "Total number of amortization schedule recalculations",
		}),
		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_appraisal_exports_total",
			Help: "Total number of exports produced, by format",
		}, []string{"format"}),
	}
}

// IncrementDocumentsExtracted counts one extraction from the given source.
func (m *Metrics) IncrementDocumentsExtracted(source string) {
	m.DocumentsExtracted.WithLabelValues(source).Inc()
}

// IncrementSchedulesComputed counts one recalculation.
func (m *Metrics) IncrementSchedulesComputed() {
	m.SchedulesComputed.Inc()
}

// IncrementExports counts one export in the given format.
func (m *Metrics) IncrementExports(format string) {
	m.Exports.WithLabelValues(format).Inc()
}
