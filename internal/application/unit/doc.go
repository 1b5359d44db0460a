// Package unit implements the base contract of the runtime: a named,
// instrumented, failure-safe asynchronous transformation.
//
// A Unit wraps a core Transform and guarantees that Execute never lets a
// panic or raw error escape: every outcome is converted into a Result
// carrying a success flag, a classified failure and a metrics snapshot.
// Metrics are immutable values replaced atomically on every execution,
// so a Unit is safe to call concurrently from independent pipelines.
package unit
