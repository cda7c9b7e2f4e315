package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	goBasket "github.com/MrEthical07/goBasket"
	"github.com/MrEthical07/goBasket/metrics/export/internaldefs"
)

var (
	// ErrNilMeter is an exported constant or variable used by the OTel exporter.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource is an exported constant or variable used by the OTel exporter.
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() goBasket.MetricsSnapshot
	RepopulateDropped() uint64
}

type observedCounter struct {
	id         goBasket.MetricID
	instrument metric.Int64ObservableCounter
}

// OTelExporter bridges engine counters into an OpenTelemetry meter through
// observable instruments. Values are pulled from the engine snapshot on each
// collection cycle.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
	dropped      metric.Int64ObservableCounter
}

// NewOTelExporter registers observable counters for the given
// [goBasket.Engine] on meter.
func NewOTelExporter(meter metric.Meter, engine *goBasket.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

// NewOTelExporterFromSource registers observable counters backed by a custom
// metrics source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &OTelExporter{
		source:   source,
		counters: make([]observedCounter, 0, len(internaldefs.CounterDefs)),
	}

	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+1)

	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	dropped, err := meter.Int64ObservableCounter(
		internaldefs.RepopulateDroppedName,
		metric.WithDescription(internaldefs.RepopulateDroppedHelp),
	)
	if err != nil {
		return nil, fmt.Errorf("create repopulate dropped counter: %w", err)
	}
	exporter.dropped = dropped
	observables = append(observables, dropped)

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		observer.ObserveInt64(exporter.dropped, int64(exporter.source.RepopulateDropped()))
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
