// Package otel bridges cavaauth's internal metric counters into
// OpenTelemetry observable instruments.
//
// The exporter registers a single callback that reads a consistent snapshot
// from the session store on every collection cycle. Histograms are exported
// as per-bucket cumulative gauges because the core snapshot carries raw
// bucket counts rather than recorded samples.
//
// # Architecture boundaries
//
// This package must NOT:
//   - Mutate the session store or its metrics.
//   - Introduce its own aggregation; the store snapshot is the source of truth.
package otel
