// Package domain holds the value types shared across the runtime:
// plans, plan steps, agent descriptors and lifecycle events.
//
// All types here are plain immutable data. The runtime never interprets
// a plan's action identifiers; it only iterates steps.
package domain
