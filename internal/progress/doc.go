// Package progress provides the event stream for capture runs: the pipeline
// emits lifecycle and per-capture events into a Hub, which batches them and
// fans them out to sinks (structured logs, Prometheus collectors, the run
// summary consumed by the status API).
package progress
