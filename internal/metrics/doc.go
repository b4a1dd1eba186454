// Package metrics records transcode job and ladder counters on a private
// Prometheus registry. The CLI is short-lived, so metrics are exported by
// writing the registry to a node_exporter textfile instead of serving them.
package metrics
