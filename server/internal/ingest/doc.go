// Package ingest implements the HTTP endpoint that accepts samples from
// airgauge-agent instances.
//
// Handler decodes POST /api/v1/ingest bodies, validates that device_id is
// present and every value is finite (400 if not), assigns the sample a UUID,
// then calls store.Put to record it. Accepted samples are fanned out to the
// registered sinks (alert engine, WebSocket hub, Kafka forwarder).
// Authentication is enforced upstream by the HTTP middleware (see package
// auth), so the handler itself only performs structural validation.
//
// New(st, sinks...) wires the handler to the given sample store.
package ingest
