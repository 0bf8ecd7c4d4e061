// Package audit provides the asynchronous audit pipeline: a buffered
// dispatcher that forwards operation records to a pluggable sink.
//
// Emission is fire-and-forget. The dispatcher never blocks the request
// path when configured with DropIfFull; dropped events are counted and
// exposed for export.
package audit
