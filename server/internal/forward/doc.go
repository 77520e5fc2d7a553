// Package forward publishes accepted samples to a Kafka topic so that
// downstream consumers (dashboards, long-term storage, analytics jobs)
// can subscribe without touching the ingest path.
//
// The forwarder is a sink for the ingest handler: Accept never blocks
// the HTTP request, it enqueues the sample into a bounded buffer that a
// background Run loop drains. When the buffer is full the newest sample
// is dropped and counted, on the theory that a stalled broker should
// not make the server hoard memory.
package forward
