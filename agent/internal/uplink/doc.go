// Package uplink delivers samples to the airgauge server's ingest API
// (POST /api/v1/ingest, JSON body).
//
// Uplink.Ship() is non-blocking: results are converted to types.Sample and
// placed in an in-memory channel (default capacity 1000). When the buffer is
// full the oldest entry is evicted so the latest air data is always preserved.
//
// Uplink.Run() drains the buffer in a loop, retrying with truncated
// exponential backoff (ship_interval→60s, ±25% jitter) on network or
// server errors.
// Permanent HTTP statuses (400, 401, 403, 413, 422) discard the sample
// immediately rather than retrying.
//
// Auth: mTLS via a client-certificate http.Transport, API key via a request
// header, or plain HTTP for local development.
//
// The postFn field is injectable for testing (httptest servers).
package uplink
