// Package prometheus provides Prometheus collectors for sessionguard metrics.
//
// [NewPrometheusExporter] accepts a [sessionguard.Engine] and exposes an
// [http.Handler] that renders all sessionguard counters and histograms in
// Prometheus text exposition format. Counter names are prefixed
// sessionguard_*_total; the single histogram is
// sessionguard_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate engine state.
package prometheus
