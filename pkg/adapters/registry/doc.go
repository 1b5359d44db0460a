// Package registry contains AgentStore adapters backing the distributed
// agent registry: an in-memory map and a Redis store that lets several
// dispatcher processes share one agent pool. Only agent presence is
// stored; execution results and unit metrics are never persisted.
package registry
