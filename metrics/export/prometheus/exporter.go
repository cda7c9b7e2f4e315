package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	goBasket "github.com/MrEthical07/goBasket"
	"github.com/MrEthical07/goBasket/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() goBasket.MetricsSnapshot
	RepopulateDropped() uint64
}

type counterDesc struct {
	id   goBasket.MetricID
	desc *prometheus.Desc
}

// Exporter exposes engine counters as a [prometheus.Collector]. Values are
// read from the engine's snapshot at scrape time; the hot path never touches
// Prometheus types.
type Exporter struct {
	source   metricsSource
	counters []counterDesc
	dropped  *prometheus.Desc
}

// NewExporter creates a collector that reads from the given [goBasket.Engine].
func NewExporter(engine *goBasket.Engine) *Exporter {
	return NewExporterFromSource(engine)
}

// NewExporterFromSource creates a collector from a custom metrics source.
func NewExporterFromSource(source metricsSource) *Exporter {
	e := &Exporter{
		source:   source,
		counters: make([]counterDesc, 0, len(internaldefs.CounterDefs)),
		dropped: prometheus.NewDesc(
			internaldefs.RepopulateDroppedName,
			internaldefs.RepopulateDroppedHelp,
			nil, nil,
		),
	}
	for _, def := range internaldefs.CounterDefs {
		e.counters = append(e.counters, counterDesc{
			id:   def.ID,
			desc: prometheus.NewDesc(def.Name, def.Help, nil, nil),
		})
	}
	return e
}

// Describe implements [prometheus.Collector].
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range e.counters {
		ch <- c.desc
	}
	ch <- e.dropped
}

// Collect implements [prometheus.Collector].
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	snapshot := e.source.MetricsSnapshot()
	for _, c := range e.counters {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(snapshot.Counters[c.id]))
	}
	ch <- prometheus.MustNewConstMetric(e.dropped, prometheus.CounterValue, float64(e.source.RepopulateDropped()))
}

// Handler returns an http.Handler serving this exporter's metrics from a
// dedicated registry.
func (e *Exporter) Handler() http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(e)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
