// Package scheduler provides the two plan-level executors built on the
// unit algebra: a parallel executor that fans out independent plan steps
// and a distributed orchestrator that assigns steps across a pool of
// registered execution agents.
//
// Plans are opaque data; the schedulers iterate steps and never
// interpret action identifiers. No dependency inference is performed:
// callers must only submit steps that are safe to run concurrently.
package scheduler
