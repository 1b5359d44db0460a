// Package ports defines the interfaces between the application core and
// its adapters: event publication, agent registry storage and metrics
// collection. Adapters under pkg/adapters implement these interfaces.
package ports
