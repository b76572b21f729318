// Package internaldefs holds the shared metric name/help tables used by the
// Prometheus and OTel exporters. It exists so both exporters render the same
// series names from one definition.
package internaldefs
