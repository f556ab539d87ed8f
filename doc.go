// Package fmatch implements the statement matcher layer of a Fortran
// front end: a speculative, checkpointable cursor over normalized
// source, a family of recognizer procedures that attempt to parse one
// construct each, and the dispatcher that sequences them per syntactic
// context.
//
// Every recognizer reports one of three outcomes: Yes (construct
// recognized, cursor advanced, record populated), No (not recognized,
// cursor restored byte-for-byte, nothing written) or Err (recognized
// far enough to commit, a diagnostic has been emitted). Callers must
// not try further alternatives after Err.
package fmatch

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'fmatch.match'.
func tracer() tracing.Trace {
	return tracing.Select("fmatch.match")
}
