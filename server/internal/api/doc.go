// Package api implements the HTTP REST API for airgauge-server.
//
// New(store, alerts) returns an http.Handler that serves:
//
//	GET /api/v1/air                   — overall air summary: worst AQI, category counts
//	GET /api/v1/devices               — all live devices ([]DeviceResponse)
//	GET /api/v1/devices/{id}          — single device; 404 if unknown or stale
//	GET /api/v1/devices/{id}/history  — retained samples, ?from= and ?to= RFC3339 bounds
//	GET /api/v1/alerts                — firing and recently resolved alerts
//	GET /api/v1/snapshot              — full JSON dump: all live devices + generated_at
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for non-GET methods
//   - Read live entries from the store (stale entries excluded from lists)
//
// JSON types are defined in types.go. Routing uses gorilla/mux.
package api
