// Package compose provides the combinators that build larger units out
// of smaller ones: Then, Map, Parallel, Fallback, Retry and Conditional.
//
// Every combinator returns a unit.Unit satisfying the same execution
// contract, so compositions nest freely. Failures from inner units are
// forwarded with their message verbatim; combinators never swallow a
// failure except where recovery is their purpose (Retry, Fallback).
package compose
