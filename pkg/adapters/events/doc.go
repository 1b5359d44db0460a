// Package events contains EventBus adapters: an in-memory bus for
// single-process deployments and tests, and a Redis Streams bus for
// multi-process deployments.
package events
