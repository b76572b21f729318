// Package prometheus provides Prometheus collectors for cavaauth metrics.
//
// [NewPrometheusExporter] accepts a [cavaauth.Store] and exposes an [http.Handler]
// that renders all cavaauth counters and histograms in Prometheus text exposition format.
// Counter names are prefixed cavaauth_*_total; the single histogram is
// cavaauth_refresh_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate store state.
package prometheus
