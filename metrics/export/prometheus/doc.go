// Package prometheus provides a Prometheus collector for goBasket metrics.
//
// [NewExporter] accepts a [goBasket.Engine] and implements
// [prometheus.Collector]; [Exporter.Handler] serves the exposition from a
// dedicated registry. Counter names are prefixed basket_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
