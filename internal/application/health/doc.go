// Package health implements the observability collector: a periodic
// monitor that polls registered units' health snapshots, logs a summary
// and pushes gauges to the metrics collector.
package health
