// Package http implements the REST API and observability surface of the
// runtime: health, Prometheus metrics, agent registry management, unit
// health snapshots and distributed plan execution.
package http
